package service

import (
	"context"
	"fmt"
	"time"

	"github.com/juliohebert/loja-sub002/internal/domain"
	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/model"
	"github.com/juliohebert/loja-sub002/internal/repository"
	"github.com/juliohebert/loja-sub002/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConversorPDV is the hand-off boundary to the point-of-sale collaborator.
// A nil error means the PDV accepted the conversion (first delivery or an
// idempotent replay deduplicated by pedido_id).
type ConversorPDV interface {
	Converter(ctx context.Context, tenantID string, req dto.ConversaoPDVRequest) error
}

type PedidoService interface {
	Criar(ctx context.Context, tenantID string, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error)
	Obter(ctx context.Context, tenantID string, id uuid.UUID) (*dto.PedidoResponse, error)
	// AtualizarStatus applies one edge of the fulfillment state machine.
	// novo→processando additionally performs the PDV hand-off and only commits
	// when the hand-off is accepted.
	AtualizarStatus(ctx context.Context, tenantID string, id uuid.UUID, req dto.AtualizarStatusPedidoRequest) (*dto.PedidoResponse, error)
	// Atualizar edits customer data / observations on a non-terminal order.
	Atualizar(ctx context.Context, tenantID string, id uuid.UUID, req dto.AtualizarPedidoRequest) (*dto.PedidoResponse, error)
	// Cancelar routes through the same transition table as any other edge.
	Cancelar(ctx context.Context, tenantID string, id uuid.UUID) error
	Listar(ctx context.Context, tenantID string, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	Estatisticas(ctx context.Context, tenantID string, dataInicio, dataFim string) (*dto.EstatisticasPedidosResponse, error)
}

type pedidoService struct {
	repo        repository.PedidoRepository
	produtoRepo repository.ProdutoRepository
	conversor   ConversorPDV
	dispatcher  *worker.Dispatcher
}

func NewPedidoService(
	repo repository.PedidoRepository,
	produtoRepo repository.ProdutoRepository,
	conversor ConversorPDV,
	dispatcher *worker.Dispatcher,
) PedidoService {
	return &pedidoService{
		repo:        repo,
		produtoRepo: produtoRepo,
		conversor:   conversor,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Criar ─────────────────────────────────────────────────────────────────────
// Checkout submission entry point. Every item is resolved against the
// read-only catalog; name, price and image are snapshotted into the order so
// later catalog edits never rewrite history. Totals are recomputed server-side
// regardless of what the client sent.

func (s *pedidoService) Criar(ctx context.Context, tenantID string, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error) {
	if len(req.Items) == 0 {
		return nil, domain.Validation(map[string]string{"items": "o pedido deve conter pelo menos um item"})
	}

	items := make(model.PedidoItems, 0, len(req.Items))
	for i, item := range req.Items {
		pid, err := uuid.Parse(item.ProdutoID)
		if err != nil {
			return nil, domain.Validation(map[string]string{
				fmt.Sprintf("items[%d].produto_id", i): "inválido",
			})
		}
		produto, err := s.produtoRepo.FindByID(ctx, tenantID, pid)
		if err != nil {
			return nil, err
		}
		if produto == nil || !produto.Ativo {
			return nil, domain.Validation(map[string]string{
				fmt.Sprintf("items[%d].produto_id", i): "produto não encontrado",
			})
		}

		var variacaoID *uuid.UUID
		if item.VariacaoID != nil {
			vid, err := uuid.Parse(*item.VariacaoID)
			if err != nil {
				return nil, domain.Validation(map[string]string{
					fmt.Sprintf("items[%d].variacao_id", i): "inválido",
				})
			}
			variacaoID = &vid
		}

		preco := item.PrecoUnitario
		if preco.IsZero() {
			preco = produto.PrecoVenda
		}
		nome := item.Nome
		if nome == "" {
			nome = produto.Nome
		}
		imagem := item.ImagemURL
		if imagem == nil {
			imagem = produto.ImagemURL
		}

		items = append(items, model.PedidoItem{
			ProdutoID:     pid,
			VariacaoID:    variacaoID,
			Nome:          nome,
			Cor:           item.Cor,
			Tamanho:       item.Tamanho,
			Quantidade:    item.Quantidade,
			PrecoUnitario: preco.Round(2),
			ImagemURL:     imagem,
		})
	}

	origem := req.Origem
	if origem == "" {
		origem = model.OrigemCatalogo
	}

	pedido := &model.PedidoCatalogo{
		TenantID:        tenantID,
		ClienteNome:     req.ClienteNome,
		ClienteTelefone: req.ClienteTelefone,
		ClienteEmail:    req.ClienteEmail,
		ClienteEndereco: req.ClienteEndereco,
		Items:           items,
		Desconto:        decimal.Zero,
		Status:          model.PedidoNovo,
		Origem:          origem,
		Observacoes:     req.Observacoes,
	}
	pedido.RecalcularTotais()

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumeroPedido(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		pedido.NumeroPedido = numero
		return s.repo.Create(ctx, tx, pedido)
	})
	if err != nil {
		return nil, err
	}

	s.notificar(ctx, pedido, "criado")
	return pedidoToResponse(pedido), nil
}

// ── AtualizarStatus ───────────────────────────────────────────────────────────

func (s *pedidoService) AtualizarStatus(ctx context.Context, tenantID string, id uuid.UUID, req dto.AtualizarStatusPedidoRequest) (*dto.PedidoResponse, error) {
	if !model.StatusPedidoValido(req.Status) {
		return nil, domain.Validation(map[string]string{"status": "status inválido"})
	}

	pedido, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	de := pedido.Status
	para := req.Status
	if !model.TransicaoValida(de, para) {
		return nil, domain.E(domain.KindInvalidTransition,
			fmt.Sprintf("Não é possível mudar o pedido de %q para %q", de, para))
	}

	// Single interaction point with the PDV subsystem: accepting an order
	// converts it into a point-of-sale transaction. The hand-off runs before
	// the commit; a rejected hand-off leaves the order in "novo" untouched.
	// A commit lost to a concurrent transition after an accepted hand-off is
	// harmless: the PDV deduplicates by pedido_id.
	if de == model.PedidoNovo && para == model.PedidoProcessando {
		if err := s.conversor.Converter(ctx, tenantID, montarConversao(pedido)); err != nil {
			return nil, domain.Infra("conversão PDV", err)
		}
	}

	ok, err := s.repo.UpdateStatusCAS(ctx, tenantID, id, de, para, req.Observacoes)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The status read at decision time no longer matches: either the
		// order vanished or another operator resolved it first.
		atual, ferr := s.repo.FindByID(ctx, tenantID, id)
		if ferr != nil {
			return nil, ferr
		}
		return nil, domain.E(domain.KindInvalidTransition,
			fmt.Sprintf("Pedido foi alterado para %q por outra operação", atual.Status))
	}

	pedido.Status = para
	if req.Observacoes != nil {
		pedido.Observacoes = req.Observacoes
	}

	switch para {
	case model.PedidoEnviado, model.PedidoEntregue, model.PedidoCancelado:
		s.notificar(ctx, pedido, para)
	}
	return pedidoToResponse(pedido), nil
}

// ── Atualizar ─────────────────────────────────────────────────────────────────

func (s *pedidoService) Atualizar(ctx context.Context, tenantID string, id uuid.UUID, req dto.AtualizarPedidoRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if model.StatusTerminal(pedido.Status) {
		return nil, domain.E(domain.KindInvalidTransition,
			fmt.Sprintf("Não é possível editar pedidos com status %q", pedido.Status))
	}

	updates := map[string]interface{}{}
	if req.ClienteNome != nil {
		updates["cliente_nome"] = *req.ClienteNome
	}
	if req.ClienteTelefone != nil {
		updates["cliente_telefone"] = *req.ClienteTelefone
	}
	if req.ClienteEmail != nil {
		updates["cliente_email"] = *req.ClienteEmail
	}
	if req.ClienteEndereco != nil {
		updates["cliente_endereco"] = *req.ClienteEndereco
	}
	if req.Observacoes != nil {
		updates["observacoes"] = *req.Observacoes
	}
	if len(updates) == 0 {
		return pedidoToResponse(pedido), nil
	}

	if err := s.repo.UpdateCliente(ctx, tenantID, id, updates); err != nil {
		return nil, err
	}
	atualizado, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return pedidoToResponse(atualizado), nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// The original exposed deletion; orders are never deleted here — cancellation
// is just another edge of the same transition table.

func (s *pedidoService) Cancelar(ctx context.Context, tenantID string, id uuid.UUID) error {
	_, err := s.AtualizarStatus(ctx, tenantID, id, dto.AtualizarStatusPedidoRequest{
		Status: model.PedidoCancelado,
	})
	return err
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *pedidoService) Obter(ctx context.Context, tenantID string, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Listar(ctx context.Context, tenantID string, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	pedidos, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		data = append(data, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *pedidoService) Estatisticas(ctx context.Context, tenantID string, dataInicio, dataFim string) (*dto.EstatisticasPedidosResponse, error) {
	pedidos, err := s.repo.ListForStats(ctx, tenantID, dataInicio, dataFim)
	if err != nil {
		return nil, err
	}

	stats := &dto.EstatisticasPedidosResponse{
		TotalPedidos: len(pedidos),
		ValorTotal:   decimal.Zero,
		TicketMedio:  decimal.Zero,
		PorStatus: map[string]int{
			model.PedidoNovo: 0, model.PedidoProcessando: 0, model.PedidoSeparacao: 0,
			model.PedidoEnviado: 0, model.PedidoEntregue: 0, model.PedidoCancelado: 0,
		},
		PorOrigem: map[string]int{
			model.OrigemCatalogo: 0, model.OrigemWhatsApp: 0, model.OrigemLojaFisica: 0,
		},
	}
	for i := range pedidos {
		p := &pedidos[i]
		stats.ValorTotal = stats.ValorTotal.Add(p.ValorTotal)
		stats.PorStatus[p.Status]++
		stats.PorOrigem[p.Origem]++
	}
	stats.ValorTotal = stats.ValorTotal.Round(2)
	if stats.TotalPedidos > 0 {
		stats.TicketMedio = stats.ValorTotal.
			Div(decimal.NewFromInt(int64(stats.TotalPedidos))).Round(2)
	}
	return stats, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func montarConversao(p *model.PedidoCatalogo) dto.ConversaoPDVRequest {
	items := make([]dto.ConversaoItemPDV, 0, len(p.Items))
	for _, item := range p.Items {
		var variacaoID *string
		if item.VariacaoID != nil {
			v := item.VariacaoID.String()
			variacaoID = &v
		}
		items = append(items, dto.ConversaoItemPDV{
			ProdutoID:     item.ProdutoID.String(),
			VariacaoID:    variacaoID,
			Nome:          item.Nome,
			Cor:           item.Cor,
			Tamanho:       item.Tamanho,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Subtotal:      item.Subtotal().Round(2),
			ImagemURL:     item.ImagemURL,
		})
	}
	observacoes := ""
	if p.Observacoes != nil {
		observacoes = *p.Observacoes
	}
	return dto.ConversaoPDVRequest{
		PedidoID:        p.ID.String(),
		NumeroPedido:    p.NumeroPedido,
		ClienteNome:     p.ClienteNome,
		ClienteTelefone: p.ClienteTelefone,
		Observacoes:     observacoes,
		Items:           items,
	}
}

// notificar enqueues an order-event notification. Best-effort — a full queue
// never fails the business operation.
func (s *pedidoService) notificar(ctx context.Context, p *model.PedidoCatalogo, evento string) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.EnqueueNotificacao(ctx, worker.NotificacaoPayload{
		PedidoID:        p.ID.String(),
		NumeroPedido:    p.NumeroPedido,
		ClienteNome:     p.ClienteNome,
		ClienteTelefone: p.ClienteTelefone,
		ClienteEmail:    p.ClienteEmail,
		Evento:          evento,
	})
	if err != nil {
		log.Warn().Err(err).
			Str("pedido_id", p.ID.String()).
			Str("evento", evento).
			Msg("falha ao enfileirar notificação")
	}
}

func pedidoToResponse(p *model.PedidoCatalogo) *dto.PedidoResponse {
	items := make([]dto.ItemPedidoResponse, 0, len(p.Items))
	for _, item := range p.Items {
		var variacaoID *string
		if item.VariacaoID != nil {
			v := item.VariacaoID.String()
			variacaoID = &v
		}
		items = append(items, dto.ItemPedidoResponse{
			ProdutoID:     item.ProdutoID.String(),
			VariacaoID:    variacaoID,
			Nome:          item.Nome,
			Tamanho:       item.Tamanho,
			Cor:           item.Cor,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Subtotal:      item.Subtotal().Round(2),
			ImagemURL:     item.ImagemURL,
		})
	}
	return &dto.PedidoResponse{
		ID:              p.ID.String(),
		NumeroPedido:    p.NumeroPedido,
		ClienteNome:     p.ClienteNome,
		ClienteTelefone: p.ClienteTelefone,
		ClienteEmail:    p.ClienteEmail,
		ClienteEndereco: p.ClienteEndereco,
		Items:           items,
		Subtotal:        p.Subtotal,
		Desconto:        p.Desconto,
		ValorTotal:      p.ValorTotal,
		Status:          p.Status,
		Origem:          p.Origem,
		Observacoes:     p.Observacoes,
		CriadoEm:        p.CriadoEm.Format(time.RFC3339),
		AtualizadoEm:    p.AtualizadoEm.Format(time.RFC3339),
	}
}
