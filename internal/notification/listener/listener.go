package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/notification"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventStockChanged = "StockChanged"

// MessageReader is satisfied by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type StockListener struct {
	consumer MessageReader
	uc       notification.UseCase
	backoff  time.Duration
	logger   logger.ZapLogger
}

func NewStockListener(consumer MessageReader, uc notification.UseCase, logger logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		backoff:  time.Second,
		logger:   logger,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type StockChangedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   StockPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type StockPayload struct {
	ProductID     string  `json:"product_id"`
	StockQuantity float64 `json:"stock_quantity"`
}

// processMessage treats the event as a trigger only; the reconciler reads live stock itself.
func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event StockChangedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventStockChanged || event.Payload.ProductID == "" {
		return
	}

	res, err := l.uc.ReconcileProduct(ctx, event.Payload.ProductID)
	if err != nil {
		l.logger.Error("Failed to reconcile notifications for product",
			zap.String("event_id", event.EventID),
			zap.String("product_id", event.Payload.ProductID),
			zap.Error(err),
		)
		return
	}
	l.logger.Debug("Processed StockChanged event",
		zap.String("product_id", event.Payload.ProductID),
		zap.Int("flipped", res.Flipped),
	)
}
