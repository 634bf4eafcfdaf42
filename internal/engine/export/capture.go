package export

import (
	"context"
	"fmt"
)

// Rasterizer is the part of a rendered symbol the capture step needs.
type Rasterizer interface {
	PNG() ([]byte, error)
}

// Result is the single outcome of an asynchronous capture.
type Result struct {
	Data []byte
	Err  error
}

// Capturer rasterizes a rendered symbol.
type Capturer interface {
	Capture(ctx context.Context, src Rasterizer) <-chan Result
}

type PNGCapturer struct{}

func NewPNGCapturer() *PNGCapturer {
	return &PNGCapturer{}
}

// Capture runs the rasterization in its own goroutine. The returned channel
// receives exactly one Result and is then closed.
func (c *PNGCapturer) Capture(ctx context.Context, src Rasterizer) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		if err := ctx.Err(); err != nil {
			out <- Result{Err: fmt.Errorf("%w: %v", ErrExportFailure, err)}
			return
		}
		data, err := src.PNG()
		if err != nil {
			out <- Result{Err: fmt.Errorf("%w: %v", ErrExportFailure, err)}
			return
		}
		if len(data) == 0 {
			out <- Result{Err: fmt.Errorf("%w: empty image", ErrExportFailure)}
			return
		}
		out <- Result{Data: data}
	}()
	return out
}

// Await blocks until the capture resolves or ctx is done.
func Await(ctx context.Context, results <-chan Result) ([]byte, error) {
	select {
	case res, ok := <-results:
		if !ok {
			return nil, fmt.Errorf("%w: capture produced no result", ErrExportFailure)
		}
		return res.Data, res.Err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrExportFailure, ctx.Err())
	}
}
