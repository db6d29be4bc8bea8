package contxt

import (
	"context"
	"os"
	"time"
)

// NewContext derives a bounded context for one scheduled job run. Setting
// CONTEXT_TEST disables the bound so tests can step through slowly.
func NewContext(parent context.Context, timeout time.Duration) context.Context {
	if os.Getenv("CONTEXT_TEST") != "" {
		return parent
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}
