package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/okian/jobmatch/pkg/metrics"
)

const defaultExchange = "jobmatch.events"

// AMQPPublisher publishes to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu     sync.Mutex
	ch     *amqp.Channel
	closed bool
}

// DialAMQP connects to url and declares exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = defaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp: dial: %w", err)
	}
	p := &AMQPPublisher{conn: conn, exchange: exchange}
	if err := p.openChannel(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp: channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("amqp: declare exchange %s: %w", p.exchange, err)
	}
	p.ch = ch
	return nil
}

// Publish sends one persistent JSON message. A channel closed by the broker
// is reopened once.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := encode(routingKey, payload)
	if err != nil {
		metrics.RecordEventPublished(routingKey, "error")
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}
	err = p.ch.Publish(p.exchange, routingKey, false, false, msg)
	if err == amqp.ErrClosed { //nolint:errorlint // amqp returns the sentinel unwrapped
		if rerr := p.openChannel(); rerr == nil {
			err = p.ch.Publish(p.exchange, routingKey, false, false, msg)
		}
	}
	if err != nil {
		metrics.RecordEventPublished(routingKey, "error")
		return fmt.Errorf("amqp: publish %s: %w", routingKey, err)
	}
	metrics.RecordEventPublished(routingKey, "ok")
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.ch != nil {
		_ = p.ch.Close()
	}
	return p.conn.Close()
}
