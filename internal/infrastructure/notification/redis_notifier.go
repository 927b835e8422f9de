// Package notification delivers order lifecycle notifications over Redis Pub/Sub.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appprocurement "github.com/procureflow/backend/internal/application/procurement"
	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/infrastructure/config"
)

// DefaultChannel is the Pub/Sub channel notifications are published to.
const DefaultChannel = "procurement:notifications"

// QuoteExpiredMessage is the wire format for a quote expiration notification.
type QuoteExpiredMessage struct {
	Type        string     `json:"type"`
	TenantID    string     `json:"tenant_id"`
	OrderID     string     `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	CustomerID  string     `json:"customer_id"`
	VendorID    string     `json:"vendor_id,omitempty"`
	VendorName  string     `json:"vendor_name,omitempty"`
	VendorEmail string     `json:"vendor_email,omitempty"`
	ExpiredAt   *time.Time `json:"expired_at,omitempty"`
	Timestamp   int64      `json:"timestamp"`
}

// MessageTypeQuoteExpired identifies quote expiration messages on the channel.
const MessageTypeQuoteExpired = "quote_expired"

// RedisNotifier publishes notifications to a Redis Pub/Sub channel.
// Subscribers (mail workers, dashboards) consume the channel out of process.
type RedisNotifier struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	channel    string
	logger     *zap.Logger
}

// RedisNotifierOption is a functional option for configuring the notifier.
type RedisNotifierOption func(*RedisNotifier)

// WithNotifierChannel sets the Pub/Sub channel name.
func WithNotifierChannel(channel string) RedisNotifierOption {
	return func(n *RedisNotifier) {
		n.channel = channel
	}
}

// WithNotifierLogger sets the logger for the notifier.
func WithNotifierLogger(logger *zap.Logger) RedisNotifierOption {
	return func(n *RedisNotifier) {
		n.logger = logger
	}
}

// NewRedisNotifier creates a notifier with its own Redis client.
func NewRedisNotifier(cfg config.RedisConfig, opts ...RedisNotifierOption) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	notifier := &RedisNotifier{
		client:     client,
		ownsClient: true,
		channel:    DefaultChannel,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(notifier)
	}

	return notifier, nil
}

// NewRedisNotifierWithClient creates a notifier with an existing Redis client.
// Note: The caller retains ownership of the client and is responsible for closing it.
func NewRedisNotifierWithClient(client *redis.Client, opts ...RedisNotifierOption) *RedisNotifier {
	notifier := &RedisNotifier{
		client:     client,
		ownsClient: false,
		channel:    DefaultChannel,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(notifier)
	}

	return notifier
}

// SendQuoteExpiredNotification publishes a quote expiration message.
// vendor is nil when the order had no vendor assigned yet.
func (n *RedisNotifier) SendQuoteExpiredNotification(ctx context.Context, order *procurement.PurchaseOrder, vendor *partner.Vendor) error {
	msg := NewQuoteExpiredMessage(order, vendor)

	data, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("Failed to marshal quote expired message",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := n.client.Publish(ctx, n.channel, data).Err(); err != nil {
		n.logger.Error("Failed to publish quote expired message",
			zap.String("channel", n.channel),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	n.logger.Debug("Published quote expired message",
		zap.String("order_number", order.OrderNumber),
		zap.String("channel", n.channel))

	return nil
}

// NewQuoteExpiredMessage builds the wire message for an expired order.
func NewQuoteExpiredMessage(order *procurement.PurchaseOrder, vendor *partner.Vendor) QuoteExpiredMessage {
	msg := QuoteExpiredMessage{
		Type:        MessageTypeQuoteExpired,
		TenantID:    order.TenantID.String(),
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID.String(),
		ExpiredAt:   order.ExpiredAt,
		Timestamp:   time.Now().UnixNano(),
	}

	if vendor != nil {
		msg.VendorID = vendor.ID.String()
		msg.VendorName = vendor.Name
		msg.VendorEmail = vendor.ContactEmail
	} else if order.VendorID != nil {
		msg.VendorID = order.VendorID.String()
	}

	return msg
}

// Close releases the Redis client if the notifier owns it.
func (n *RedisNotifier) Close() error {
	if n.ownsClient {
		return n.client.Close()
	}
	return nil
}

// Ensure RedisNotifier implements NotificationService
var _ appprocurement.NotificationService = (*RedisNotifier)(nil)
