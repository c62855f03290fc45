// Package events publishes raised stock alerts to RabbitMQ so external
// notification consumers (email, chat bots) can react without polling the
// API. The queue is durable; alerts survive a broker restart.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"go-stockdash/internal/stock"

	"github.com/streadway/amqp"
)

const alertQueue = "stock_alerts"

// Publisher holds the AMQP connection and channel. A nil *Publisher is safe
// to call; publishing becomes a no-op so the API runs without a broker.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to RabbitMQ and declares the alert queue.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		alertQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", alertQueue, err)
	}

	log.Printf("AMQP publisher connected, %s queue declared", alertQueue)
	return &Publisher{conn: conn, channel: ch}, nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close channel: %w", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return firstErr
}

// PublishAlert sends one stock alert as a persistent JSON message.
func (p *Publisher) PublishAlert(alert stock.Alert) error {
	if p == nil || p.channel == nil {
		return nil
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	err = p.channel.Publish(
		"",         // default exchange
		alertQueue, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}
