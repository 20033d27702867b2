package frameio

import "time"

const (
	// DefaultBaseURL is the review service's API root.
	DefaultBaseURL = "https://api.frame.io"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestDelay is the fixed pre-request delay. The
	// provider tolerates 0.2-2.0s; half a second is a safe middle.
	DefaultRequestDelay = 500 * time.Millisecond

	// DefaultMaxRetries is the retry budget per request.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay for rate-limit backoff and
	// the fixed delay for transient-failure retries.
	DefaultRetryDelay = time.Second

	// DefaultRetryMultiplier grows the rate-limit backoff per attempt.
	DefaultRetryMultiplier = 2.0
)

// Config holds client tuning. The zero value is not usable; start from
// DefaultConfig and override.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string

	// RequestDelay is the fixed pre-request delay.
	RequestDelay time.Duration

	// MaxRetries bounds retries for both rate-limit and transient
	// failures. Exhausting it surfaces a fatal error for the call.
	MaxRetries int

	// RetryDelay is the backoff base: rate-limit waits grow as
	// RetryDelay * RetryMultiplier^attempt, transient retries wait a
	// fixed RetryDelay.
	RetryDelay time.Duration

	// RetryMultiplier is the rate-limit backoff growth factor.
	RetryMultiplier float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		RequestDelay:    DefaultRequestDelay,
		MaxRetries:      DefaultMaxRetries,
		RetryDelay:      DefaultRetryDelay,
		RetryMultiplier: DefaultRetryMultiplier,
	}
}
