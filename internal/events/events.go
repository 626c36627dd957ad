// Package events publishes integration events to RabbitMQ. Publishing is
// best-effort from the caller's point of view: the order workflow commits
// first and only logs a failed publish.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xenking/storefront/internal/domain/order"
)

// OrderCreatedQueue is the durable queue order.created events go to.
const OrderCreatedQueue = "order.created"

const publishTimeout = 3 * time.Second

// OrderCreated is the payload emitted after an order is committed.
type OrderCreated struct {
	EventType  string             `json:"eventType"`
	OrderID    int64              `json:"orderId"`
	CustomerID int64              `json:"customerId"`
	Status     string             `json:"status"`
	Items      []OrderCreatedItem `json:"items"`
	Total      string             `json:"total"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// OrderCreatedItem is one priced line in an OrderCreated event. UnitPrice is
// the snapshot price as a decimal string.
type OrderCreatedItem struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// Publisher emits events over an AMQP channel.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher opens a channel on the connection and declares the queues it
// publishes to, so a publish never fails on missing infrastructure.
func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open channel")
	}

	if _, err := ch.QueueDeclare(OrderCreatedQueue, true, false, false, false, nil); err != nil {
		return nil, errors.Wrapf(err, "declare %s", OrderCreatedQueue)
	}

	return &Publisher{ch: ch}, nil
}

// Close closes the underlying channel.
func (p *Publisher) Close() error {
	return p.ch.Close()
}

// OrderCreated publishes an order.created event for the given order.
func (p *Publisher) OrderCreated(ctx context.Context, o *order.Order) error {
	ev := NewOrderCreated(o)

	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal order.created")
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(pubCtx,
		"",                // default exchange
		OrderCreatedQueue, // queue name as routing key
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	return errors.Wrap(err, "publish order.created")
}

// NewOrderCreated builds the event payload from a domain order.
func NewOrderCreated(o *order.Order) OrderCreated {
	ev := OrderCreated{
		EventType:  "OrderCreated",
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Total:      o.Total().StringFixed(2),
		OccurredAt: time.Now().UTC(),
		Items:      make([]OrderCreatedItem, len(o.Items)),
	}
	for i, it := range o.Items {
		ev.Items[i] = OrderCreatedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
		}
	}
	return ev
}

// NopPublisher drops events. Used when no broker URL is configured.
type NopPublisher struct{}

// OrderCreated implements order.EventPublisher by doing nothing.
func (NopPublisher) OrderCreated(context.Context, *order.Order) error {
	return nil
}
