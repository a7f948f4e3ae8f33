package assetcache

// SentinelError is an error.
type SentinelError string

const (
	// ErrLoaderMissing indicates cache configuration without OnLoad.
	ErrLoaderMissing = SentinelError("asset loader is not configured")

	// ErrNothingToInvalidate indicates no caches were added to Invalidator.
	ErrNothingToInvalidate = SentinelError("nothing to invalidate")

	// ErrAlreadyInvalidated indicates recent invalidation.
	ErrAlreadyInvalidated = SentinelError("already invalidated")
)

// Error implements error.
func (e SentinelError) Error() string {
	return string(e)
}
