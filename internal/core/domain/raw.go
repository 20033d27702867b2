package domain

// RawComment is a comment payload as returned by the review service,
// before normalisation. Author, timestamp and annotation fields vary
// across API responses, so the whole object is kept as a bag for the
// normaliser's fallback-chain extractors.
type RawComment struct {
	// AssetID links the comment to its asset.
	AssetID string

	// Fields is the raw decoded JSON object.
	Fields map[string]any
}
