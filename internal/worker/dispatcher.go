package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const QueueNotificacao = "jobs:notificacao"

// Job is the generic envelope for all async tasks. Attempts counts deliveries
// already tried; the pool re-enqueues failed jobs until MaxAttempts, then
// moves them to the DLQ.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// NotificacaoPayload asks the notification worker to contact a customer about
// an order event. Message composition and delivery channels beyond plain
// email are external — the engine only hands over data already on the order.
type NotificacaoPayload struct {
	PedidoID        string  `json:"pedido_id"`
	NumeroPedido    string  `json:"numero_pedido"`
	ClienteNome     string  `json:"cliente_nome"`
	ClienteTelefone string  `json:"cliente_telefone"`
	ClienteEmail    *string `json:"cliente_email,omitempty"`
	Evento          string  `json:"evento"` // criado | enviado | entregue | cancelado
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueNotificacao pushes an order-notification job to Redis. Best-effort:
// callers fire and forget — a lost notification never fails the transition.
func (d *Dispatcher) EnqueueNotificacao(ctx context.Context, payload NotificacaoPayload) error {
	return d.enqueue(ctx, QueueNotificacao, "notificacao", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
