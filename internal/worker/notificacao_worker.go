package worker

// notificacao_worker.go
// Processes order-notification jobs from QueueNotificacao.
// Email goes out via SMTP when the order carries a customer email; WhatsApp
// delivery is fully external, so for phone-only customers the job just logs
// the contact data already visible on the order.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/juliohebert/loja-sub002/internal/infra"

	"github.com/rs/zerolog/log"
)

var assuntosPorEvento = map[string]string{
	"criado":    "Recebemos seu pedido %s",
	"enviado":   "Seu pedido %s foi enviado",
	"entregue":  "Seu pedido %s foi entregue",
	"cancelado": "Seu pedido %s foi cancelado",
}

// NotificacaoWorker delivers order-event emails.
type NotificacaoWorker struct {
	mailer *infra.Mailer
}

func NewNotificacaoWorker(mailer *infra.Mailer) *NotificacaoWorker {
	return &NotificacaoWorker{mailer: mailer}
}

// Process handles one notification job. A malformed payload is dropped (not
// retried); a delivery failure is returned so the pool can retry it.
func (w *NotificacaoWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload NotificacaoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacao_worker: payload inválido — descartado")
		return nil
	}

	if payload.ClienteEmail == nil || *payload.ClienteEmail == "" {
		log.Info().
			Str("pedido_id", payload.PedidoID).
			Str("numero_pedido", payload.NumeroPedido).
			Str("cliente_telefone", payload.ClienteTelefone).
			Str("evento", payload.Evento).
			Msg("notificacao_worker: cliente sem email — contato apenas via WhatsApp (externo)")
		return nil
	}

	assunto, ok := assuntosPorEvento[payload.Evento]
	if !ok {
		log.Warn().Str("evento", payload.Evento).Msg("notificacao_worker: evento desconhecido — descartado")
		return nil
	}
	assunto = fmt.Sprintf(assunto, payload.NumeroPedido)
	corpo := fmt.Sprintf("Olá %s,\n\nAtualização do pedido %s: %s.\n",
		payload.ClienteNome, payload.NumeroPedido, payload.Evento)

	if err := w.mailer.SendPedidoEmail(*payload.ClienteEmail, assunto, corpo); err != nil {
		log.Error().Err(err).
			Str("to", *payload.ClienteEmail).
			Str("pedido_id", payload.PedidoID).
			Msg("notificacao_worker: falha no envio")
		return err
	}
	log.Info().
		Str("to", *payload.ClienteEmail).
		Str("pedido_id", payload.PedidoID).
		Str("evento", payload.Evento).
		Msg("notificacao_worker: email enviado")
	return nil
}
