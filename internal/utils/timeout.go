package utils

import (
	"context"
	"time"
)

// Upper bound for a single Mongo operation.
const DefaultDBTimeout = 5 * time.Second

// WithDBTimeout derives a context for one repository call so a slow
// primary cannot stall the request indefinitely.
func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}
