package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchforge/gatherer/internal/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPProducer publishes instructions to a durable RabbitMQ queue as
// persistent JSON messages, each with a random correlation id.
type AMQPProducer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  logging.Logger
}

func NewAMQPProducer(uri, queueName string, logger logging.Logger) (*AMQPProducer, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	return &AMQPProducer{
		conn:    conn,
		channel: ch,
		queue:   queueName,
		logger:  logger.With("module", "amqp_producer"),
	}, nil
}

func (p *AMQPProducer) Publish(ctx context.Context, instruction Instruction) error {
	body, err := json.Marshal(instruction)
	if err != nil {
		return fmt.Errorf("marshaling instruction: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		CorrelationId: uuid.NewString(),
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("publishing instruction: %w", err)
	}

	p.logger.Debug(ctx, "published instruction",
		"sharingCode", instruction.SharingCode, "quality", instruction.Quality)

	return nil
}

func (p *AMQPProducer) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
