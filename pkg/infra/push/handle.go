package push

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/domain/interfaces"
)

// Factory builds the transport. It is called at most once per Handle.
type Factory func(ctx context.Context) (interfaces.PushTransport, error)

// Handle owns the process-wide push transport.
//
// Init runs the factory exactly once, no matter how many goroutines call it.
// The transport is published with a single atomic store after the factory
// returns, so Transport observes either "not initialized" or a complete
// transport. A failed initialization is permanent for the Handle; callers see
// the same error from every Init call and Transport keeps reporting false.
type Handle struct {
	factory   Factory
	once      sync.Once
	transport atomic.Pointer[interfaces.PushTransport]
	initErr   error
}

// NewHandle creates an uninitialized Handle
func NewHandle(factory Factory) *Handle {
	return &Handle{factory: factory}
}

// Init initializes the transport. Safe for concurrent use.
func (h *Handle) Init(ctx context.Context) error {
	h.once.Do(func() {
		if h.factory == nil {
			h.initErr = goerr.New("no push transport factory configured")
			return
		}

		t, err := h.factory(ctx)
		if err != nil {
			h.initErr = goerr.Wrap(err, "failed to initialize push transport")
			return
		}
		if t == nil {
			h.initErr = goerr.New("push transport factory returned nil")
			return
		}

		h.transport.Store(&t)
	})

	return h.initErr
}

// Transport returns the initialized transport
func (h *Handle) Transport() (interfaces.PushTransport, bool) {
	p := h.transport.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Name returns the transport name, or "none" before initialization
func (h *Handle) Name() string {
	if t, ok := h.Transport(); ok {
		return t.Name()
	}
	return "none"
}
