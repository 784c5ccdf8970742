package push_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/labpush/pkg/domain/interfaces"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/m-mizutani/labpush/pkg/infra/push"
)

func TestHandle_Uninitialized(t *testing.T) {
	h := push.NewHandle(func(ctx context.Context) (interfaces.PushTransport, error) {
		return push.NewLogTransport(), nil
	})

	tr, ok := h.Transport()
	gt.False(t, ok)
	gt.Nil(t, tr)
	gt.Value(t, h.Name()).Equal("none")
}

func TestHandle_InitOnce(t *testing.T) {
	var calls atomic.Int32
	h := push.NewHandle(func(ctx context.Context) (interfaces.PushTransport, error) {
		calls.Add(1)
		return push.NewLogTransport(), nil
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gt.NoError(t, h.Init(ctx))
			tr, ok := h.Transport()
			gt.True(t, ok)
			gt.Value(t, tr.Name()).Equal("log")
		}()
	}
	wg.Wait()

	gt.Number(t, int(calls.Load())).Equal(1)
	gt.Value(t, h.Name()).Equal("log")
}

func TestHandle_InitFailure(t *testing.T) {
	var calls atomic.Int32
	h := push.NewHandle(func(ctx context.Context) (interfaces.PushTransport, error) {
		calls.Add(1)
		return nil, errors.New("missing credentials")
	})

	ctx := context.Background()
	err := h.Init(ctx)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to initialize push transport")

	// repeated Init does not retry the factory
	gt.Error(t, h.Init(ctx))
	gt.Number(t, int(calls.Load())).Equal(1)

	_, ok := h.Transport()
	gt.False(t, ok)
}

func TestHandle_NilFactory(t *testing.T) {
	h := push.NewHandle(nil)
	gt.Error(t, h.Init(context.Background()))

	_, ok := h.Transport()
	gt.False(t, ok)
}

func TestLogTransport(t *testing.T) {
	ctx := context.Background()
	tr := push.NewLogTransport()

	id, err := tr.Send(ctx, &model.PushMessage{
		Title:  "New push to main",
		Body:   "alice pushed 1 commit to main in demo",
		Data:   map[string]string{"event_type": "push"},
		Target: model.DeliveryTarget{Token: "device-token"},
	})
	gt.NoError(t, err)
	gt.Number(t, len(id)).Equal(36)

	gt.NoError(t, tr.Validate(ctx, model.DeliveryTarget{Token: "device-token"}))
	gt.True(t, errors.Is(tr.Validate(ctx, model.DeliveryTarget{}), model.ErrInvalidTarget))
}
