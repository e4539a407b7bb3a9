package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"boq-ai/internal/model"
)

type RunStore interface {
	Create(ctx context.Context, run *model.PipelineRun) error
}

// RunRecordWorker consumes pipeline run events and stores them in pipeline_runs.
type RunRecordWorker struct {
	conn      *amqp.Connection
	repo      RunStore
	queueName string
	prefetch  int
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunRecordWorker(conn *amqp.Connection, repo RunStore, queueName string, prefetch int, logger *zap.Logger) *RunRecordWorker {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &RunRecordWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
		prefetch:  prefetch,
		logger:    logger,
	}
}

func (w *RunRecordWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := ch.Qos(w.prefetch, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.logger.Warn("worker.deliveries.closed", zap.String("queue", w.queueName))
					return
				}

				if err := w.handle(workerCtx, d.Body); err != nil {
					w.logger.Error("worker.run.persist_failed", zap.String("message_id", d.MessageId), zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	w.logger.Info("worker.started", zap.String("queue", w.queueName), zap.Int("prefetch", w.prefetch))
	return nil
}

func (w *RunRecordWorker) handle(ctx context.Context, body []byte) error {
	var run model.PipelineRun
	if err := json.Unmarshal(body, &run); err != nil {
		return fmt.Errorf("decode pipeline run failed: %w", err)
	}
	if run.RunID == "" {
		return fmt.Errorf("pipeline run has no run_id")
	}
	// the database assigns the row id
	run.ID = 0
	return w.repo.Create(ctx, &run)
}

func (w *RunRecordWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
