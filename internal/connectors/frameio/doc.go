// Package frameio implements the review-service connector.
//
// It contains the rate-limited HTTP client, the endpoint prober that
// copes with the API's historically inconsistent endpoint shapes, and
// the typed operations the harvester core consumes through the
// driven.ReviewAPI port.
//
// All requests are serialised through a single throttle; the provider's
// rate limit makes parallel fan-out counterproductive.
package frameio
