// Package connectors provides clients for remote review services.
// Each connector knows how to talk to a specific provider's API and
// exposes it to the core through the driven.ReviewAPI port.
package connectors
