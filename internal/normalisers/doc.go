// Package normalisers turns raw provider payloads into domain types.
// Each normaliser knows the quirks of one payload family and shields
// the core services from them.
package normalisers
