package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"boq-ai/internal/model"
)

// RunPublisher sends PipelineRun audit records to a durable queue.
type RunPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewRunPublisher(conn *amqp.Connection, queueName string) *RunPublisher {
	return &RunPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *RunPublisher) PublishRun(ctx context.Context, run model.PipelineRun) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal pipeline run failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    run.RunID,
			Type:         "boq.pipeline.run",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish pipeline run failed: %w", err)
	}
	return nil
}

// Ping reports whether the connection is still open.
func Ping(conn *amqp.Connection) error {
	if conn == nil || conn.IsClosed() {
		return fmt.Errorf("rabbitmq connection closed")
	}
	return nil
}
