package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/cafeteria-pos/internal/application/ports"
	"github.com/jhoicas/cafeteria-pos/pkg/config"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

// DefaultExchange exchange topic cuando la configuración no define uno.
const DefaultExchange = "cafe_topic"

const publishTimeout = 5 * time.Second

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher publica eventos de dominio en un exchange topic de RabbitMQ.
type Publisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex // un canal AMQP no admite publicaciones concurrentes
	channel  *amqp.Channel
	exchange string
	log      *logger.Logger
}

// Connect abre conexión y canal y declara el exchange (durable).
func Connect(cfg config.BrokerConfig, log *logger.Logger) (*Publisher, error) {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("conectar rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declarar exchange %s: %w", exchange, err)
	}
	log.Info().Str("exchange", exchange).Msg("conectado a RabbitMQ")
	return &Publisher{conn: conn, channel: channel, exchange: exchange, log: log}, nil
}

// Publish serializa el evento a JSON y lo publica con entrega persistente.
func (p *Publisher) Publish(ctx context.Context, routingKey string, event any) error {
	msg, err := newPublishing(event, time.Now().UTC())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	); err != nil {
		return fmt.Errorf("publicar %s: %w", routingKey, err)
	}
	p.log.Debug().Str("routing_key", routingKey).Msg("evento publicado")
	return nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func newPublishing(event any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("serializar evento: %w", err)
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    now,
		Body:         body,
	}, nil
}
