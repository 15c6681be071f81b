package listener

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/notification/dto"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

type scriptedReader struct {
	mu   sync.Mutex
	msgs []kafka.Message
	errs []error
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.msgs) > 0 {
		msg := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

type recordingUseCase struct {
	mu       sync.Mutex
	products []string
	done     chan struct{}
	want     int
}

func (u *recordingUseCase) ReconcileProduct(ctx context.Context, productID string) (*dto.ReconcileResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.products = append(u.products, productID)
	if len(u.products) == u.want {
		close(u.done)
	}
	return &dto.ReconcileResult{Flipped: 1}, nil
}

func (u *recordingUseCase) ListNotifications(ctx context.Context, userID string) (*dto.NotificationList, error) {
	return nil, nil
}

func (u *recordingUseCase) CreateNotification(ctx context.Context, input *dto.CreateNotificationInput) (*model.ProductNotification, error) {
	return nil, nil
}

func (u *recordingUseCase) MarkRead(ctx context.Context, userID, id string) (*model.ProductNotification, error) {
	return nil, nil
}

func (u *recordingUseCase) ReconcileAll(ctx context.Context) (*dto.ReconcileResult, error) {
	return nil, nil
}

func TestStockListener(t *testing.T) {
	reader := &scriptedReader{
		errs: []error{errors.New("broker unavailable")},
		msgs: []kafka.Message{
			{Value: []byte(`not json`)},
			{Value: []byte(`{"event_type":"OrderCreated","payload":{"product_id":"ignored"}}`)},
			{Value: []byte(`{"event_type":"StockChanged","payload":{"product_id":"p1","stock_quantity":3}}`)},
			{Value: []byte(`{"event_type":"StockChanged","payload":{"product_id":""}}`)},
			{Value: []byte(`{"event_type":"StockChanged","payload":{"product_id":"p2","stock_quantity":0}}`)},
		},
	}
	uc := &recordingUseCase{done: make(chan struct{}), want: 2}

	l := NewStockListener(reader, uc, logger.NewNop())
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(stopped)
	}()

	select {
	case <-uc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not process events")
	}
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	assert.Equal(t, []string{"p1", "p2"}, uc.products)
}
