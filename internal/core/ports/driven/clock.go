package driven

import (
	"context"
	"time"
)

// Clock abstracts time so waits can be observed and shortened in tests.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}
