package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "portfolio.events"
	QueueName    = "analytics.post_viewed"
)

var ErrPublisherClosed = errors.New("publisher closed")

// DeclareExchange declares the durable topic exchange all events go to.
func DeclareExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil)
}

// DeclareViewQueue declares the exchange and the durable queue bound to
// post.viewed, returning the queue name.
func DeclareViewQueue(ch *amqp.Channel) (string, error) {
	if err := DeclareExchange(ch); err != nil {
		return "", fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(QueueName, true, false, false, false, nil)
	if err != nil {
		return "", fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, TypePostViewed, ExchangeName, false, nil); err != nil {
		return "", fmt.Errorf("bind queue: %w", err)
	}
	return q.Name, nil
}

type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
	once    sync.Once
}

func NewRabbitMQPublisher(url string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := DeclareExchange(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &RabbitMQPublisher{conn: conn, channel: ch}, nil
}

func (p *RabbitMQPublisher) PublishPostViewed(ctx context.Context, e PostViewed) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return ErrPublisherClosed
	}
	err = p.channel.PublishWithContext(ctx, ExchangeName, e.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    e.ID.String(),
		Timestamp:    e.Timestamp,
		Type:         e.Type,
		Body:         body,
		DeliveryMode: amqp.Transient,
	})
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Healthy reports whether the connection is still open.
func (p *RabbitMQPublisher) Healthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil && !p.conn.IsClosed()
}

func (p *RabbitMQPublisher) Close() error {
	var err error
	p.once.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.channel != nil {
			err = p.channel.Close()
			p.channel = nil
		}
		if p.conn != nil {
			if closeErr := p.conn.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
			p.conn = nil
		}
	})
	return err
}

// DecodePostViewed parses a delivery body, rejecting other event types.
func DecodePostViewed(body []byte) (PostViewed, error) {
	var e PostViewed
	if err := json.Unmarshal(body, &e); err != nil {
		return e, fmt.Errorf("decode event: %w", err)
	}
	if e.Type != TypePostViewed {
		return e, fmt.Errorf("%w: %q", ErrUnexpectedType, e.Type)
	}
	return e, nil
}

var ErrUnexpectedType = errors.New("unexpected event type")
