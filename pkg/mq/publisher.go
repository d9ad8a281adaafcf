package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Envelope общий формат событий сервиса. Тип события совпадает с routing key.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Source     string          `json:"source"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// Publisher публикует события сервиса в topic exchange RabbitMQ
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	source   string
	now      func() time.Time
}

// NewPublisher подключается к брокеру и объявляет durable topic exchange.
// source попадает в поле Source конверта и в AppId сообщения.
func NewPublisher(url, exchange, source string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &Publisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		source:   source,
		now:      time.Now,
	}, nil
}

// PublishJSON оборачивает data в Envelope и публикует с routing key eventType
func (p *Publisher) PublishJSON(ctx context.Context, eventType string, data any) error {
	msg, err := p.message(eventType, data)
	if err != nil {
		return err
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, eventType, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// message собирает AMQP-сообщение; идентификатор и время события дублируются в свойствах
func (p *Publisher) message(eventType string, data any) (amqp.Publishing, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	env := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     p.source,
		OccurredAt: p.now().UTC(),
		Data:       raw,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s envelope: %w", eventType, err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Type:         env.Type,
		AppId:        env.Source,
		Timestamp:    env.OccurredAt,
		Body:         body,
	}, nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
