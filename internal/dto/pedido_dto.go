package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProdutoID     string          `json:"produto_id"     validate:"required,uuid"`
	VariacaoID    *string         `json:"variacao_id"    validate:"omitempty,uuid"`
	Nome          string          `json:"nome"`
	Tamanho       string          `json:"tamanho"`
	Cor           string          `json:"cor"`
	Quantidade    int             `json:"quantidade"     validate:"required,gt=0"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario" validate:"min=0"`
	ImagemURL     *string         `json:"imagem_url"`
}

type CriarPedidoRequest struct {
	ClienteNome     string              `json:"cliente_nome"     validate:"required"`
	ClienteTelefone string              `json:"cliente_telefone" validate:"required"`
	ClienteEmail    *string             `json:"cliente_email"    validate:"omitempty,email"`
	ClienteEndereco *string             `json:"cliente_endereco"`
	Items           []ItemPedidoRequest `json:"items"            validate:"required,min=1,dive"`
	Observacoes     *string             `json:"observacoes"`
	Origem          string              `json:"origem"           validate:"omitempty,oneof=catalogo whatsapp loja_fisica"`
}

type AtualizarStatusPedidoRequest struct {
	Status      string  `json:"status" validate:"required,oneof=novo processando separacao enviado entregue cancelado"`
	Observacoes *string `json:"observacoes"`
}

// AtualizarPedidoRequest edits customer data on a non-terminal order.
// Only non-nil fields are applied.
type AtualizarPedidoRequest struct {
	ClienteNome     *string `json:"cliente_nome"`
	ClienteTelefone *string `json:"cliente_telefone"`
	ClienteEmail    *string `json:"cliente_email" validate:"omitempty,email"`
	ClienteEndereco *string `json:"cliente_endereco"`
	Observacoes     *string `json:"observacoes"`
}

// PedidoFilter drives the admin order listing. Busca matches free text against
// numero_pedido, cliente_nome and cliente_telefone.
type PedidoFilter struct {
	Busca      string
	Status     string
	Origem     string
	DataInicio string // YYYY-MM-DD, inclusive
	DataFim    string // YYYY-MM-DD, inclusive
	Page       int
	Limit      int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	ProdutoID     string          `json:"produto_id"`
	VariacaoID    *string         `json:"variacao_id,omitempty"`
	Nome          string          `json:"nome"`
	Tamanho       string          `json:"tamanho"`
	Cor           string          `json:"cor"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ImagemURL     *string         `json:"imagem_url,omitempty"`
}

type PedidoResponse struct {
	ID              string               `json:"id"`
	NumeroPedido    string               `json:"numero_pedido"`
	ClienteNome     string               `json:"cliente_nome"`
	ClienteTelefone string               `json:"cliente_telefone"`
	ClienteEmail    *string              `json:"cliente_email,omitempty"`
	ClienteEndereco *string              `json:"cliente_endereco,omitempty"`
	Items           []ItemPedidoResponse `json:"items"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Desconto        decimal.Decimal      `json:"desconto"`
	ValorTotal      decimal.Decimal      `json:"valor_total"`
	Status          string               `json:"status"`
	Origem          string               `json:"origem"`
	Observacoes     *string              `json:"observacoes,omitempty"`
	CriadoEm        string               `json:"criado_em"`
	AtualizadoEm    string               `json:"atualizado_em"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// EstatisticasPedidosResponse aggregates the same filtered date range as the
// listing. TicketMedio is zero when there are no orders.
type EstatisticasPedidosResponse struct {
	TotalPedidos int             `json:"total_pedidos"`
	ValorTotal   decimal.Decimal `json:"valor_total"`
	TicketMedio  decimal.Decimal `json:"ticket_medio"`
	PorStatus    map[string]int  `json:"por_status"`
	PorOrigem    map[string]int  `json:"por_origem"`
}
