package worker

// retry_cron.go
// Background goroutine that periodically drains the notification DLQ back
// into the main queue, giving transient SMTP outages a second chance without
// manual intervention. Attempts restart from zero on requeue; an entry that
// keeps failing just cycles back to the DLQ.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10
)

// StartDLQRetryCron launches a background goroutine that ticks every 5min and
// requeues up to retryBatchSize DLQ entries per tick. It respects the context
// for graceful shutdown.
func StartDLQRetryCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				requeueDLQ(ctx, rdb, QueueNotificacao)
			}
		}
	}()
}

func requeueDLQ(ctx context.Context, rdb *redis.Client, queue string) {
	dlqKey := DLQPrefix + queue
	requeued := 0

	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: falha ao ler DLQ")
			return
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: entrada inválida — descartada")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: falha ao serializar job")
			continue
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			// Put it back so the entry is not lost
			_ = rdb.RPush(ctx, dlqKey, raw).Err()
			log.Error().Err(err).Str("queue", queue).Msg("retry_cron: falha ao re-enfileirar")
			return
		}
		requeued++
	}

	if requeued > 0 {
		log.Info().Int("count", requeued).Str("queue", queue).Msg("retry_cron: jobs da DLQ re-enfileirados")
	}
}
