// Package closer shuts down resources in reverse registration order.
package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const defaultForcedTimeout = 2 * time.Second

// Func releases one resource.
type Func func(ctx context.Context) error

// Closer runs registered Funcs last-in first-out. It is safe for concurrent
// use and closes at most once.
type Closer struct {
	mu            sync.Mutex
	funcs         []namedFunc
	once          sync.Once
	err           error
	forcedTimeout time.Duration
}

type namedFunc struct {
	name string
	fn   Func
}

// New returns a Closer. forcedTimeout bounds the parallel close of whatever is
// left when the Close context expires; zero means two seconds.
func New(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}
	return &Closer{forcedTimeout: forcedTimeout}
}

// Add registers fn under name, used in error messages.
func (c *Closer) Add(name string, fn Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, namedFunc{name: name, fn: fn})
}

// AddCloser registers an io.Closer-like value.
func (c *Closer) AddCloser(name string, closer interface{ Close() error }) {
	c.Add(name, func(context.Context) error { return closer.Close() })
}

// Close runs the registered funcs one by one, newest first. If ctx ends before
// they finish, the remaining ones run in parallel under the forced timeout.
// Later calls return the first call's result.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.mu.Unlock()
		c.err = c.close(ctx, funcs)
	})
	return c.err
}

func (c *Closer) close(ctx context.Context, funcs []namedFunc) error {
	var failures []string
	for i := len(funcs) - 1; i >= 0; i-- {
		f := funcs[i]
		done := make(chan error, 1)
		go func() { done <- f.fn(ctx) }()

		select {
		case err := <-done:
			if err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", f.name, err))
			}
		case <-ctx.Done():
			failures = append(failures, fmt.Sprintf("%s: %v", f.name, ctx.Err()))
			failures = append(failures, c.forceClose(funcs[:i])...)
			return fmt.Errorf("shutdown interrupted after %d of %d resources:\n%s",
				len(funcs)-1-i, len(funcs), strings.Join(failures, "\n"))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("shutdown finished with errors:\n%s", strings.Join(failures, "\n"))
	}
	return nil
}

func (c *Closer) forceClose(funcs []namedFunc) []string {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []string
	)
	for _, f := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.fn(ctx); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s (forced): %v", f.name, err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return failures
}
