package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pedido status values. "entregue" and "cancelado" are terminal.
const (
	PedidoNovo        = "novo"
	PedidoProcessando = "processando"
	PedidoSeparacao   = "separacao"
	PedidoEnviado     = "enviado"
	PedidoEntregue    = "entregue"
	PedidoCancelado   = "cancelado"
)

// Pedido origin channels.
const (
	OrigemCatalogo   = "catalogo"
	OrigemWhatsApp   = "whatsapp"
	OrigemLojaFisica = "loja_fisica"
)

// transicoesPedido is the single authoritative transition table. Every entry
// point (API, batch jobs, future UIs) must go through TransicaoValida — no
// caller may bypass it with its own status checks.
var transicoesPedido = map[string][]string{
	PedidoNovo:        {PedidoProcessando, PedidoCancelado},
	PedidoProcessando: {PedidoSeparacao, PedidoCancelado},
	PedidoSeparacao:   {PedidoEnviado, PedidoCancelado},
	PedidoEnviado:     {PedidoEntregue, PedidoCancelado},
	PedidoEntregue:    {},
	PedidoCancelado:   {},
}

// TransicaoValida reports whether an order may move from "de" to "para".
func TransicaoValida(de, para string) bool {
	for _, s := range transicoesPedido[de] {
		if s == para {
			return true
		}
	}
	return false
}

// StatusPedidoValido reports whether s names a known order status.
func StatusPedidoValido(s string) bool {
	_, ok := transicoesPedido[s]
	return ok
}

// StatusTerminal reports whether no transition leaves s.
func StatusTerminal(s string) bool {
	return len(transicoesPedido[s]) == 0 && StatusPedidoValido(s)
}

// PedidoItem is one line of a catalog order, stored denormalized inside the
// order's JSONB column so the order survives later catalog edits unchanged.
type PedidoItem struct {
	ProdutoID     uuid.UUID       `json:"produto_id"`
	VariacaoID    *uuid.UUID      `json:"variacao_id,omitempty"`
	Nome          string          `json:"nome"`
	Cor           string          `json:"cor"`
	Tamanho       string          `json:"tamanho"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	ImagemURL     *string         `json:"imagem_url,omitempty"`
}

// Subtotal returns quantidade × preco_unitario for the line.
func (i PedidoItem) Subtotal() decimal.Decimal {
	return i.PrecoUnitario.Mul(decimal.NewFromInt(int64(i.Quantidade)))
}

// PedidoItems maps to a JSONB column.
type PedidoItems []PedidoItem

func (p PedidoItems) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PedidoItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = nil
		return nil
	default:
		return fmt.Errorf("pedido items: unsupported scan type %T", value)
	}
}

// PedidoCatalogo is a customer-submitted purchase intent progressing through
// the fulfillment state machine. valor_total is always recomputed as
// subtotal - desconto, never edited independently.
type PedidoCatalogo struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     string    `gorm:"type:varchar(100);not null;index"`
	NumeroPedido string    `gorm:"type:varchar(20);not null;index"`

	ClienteNome     string  `gorm:"type:varchar(200);not null"`
	ClienteTelefone string  `gorm:"type:varchar(20);not null;index"`
	ClienteEmail    *string `gorm:"type:varchar(200)"`
	ClienteEndereco *string

	Items      PedidoItems     `gorm:"type:jsonb;not null"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Desconto   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ValorTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Status      string  `gorm:"type:varchar(20);not null;default:'novo';index"`
	Origem      string  `gorm:"type:varchar(20);not null;default:'catalogo'"`
	Observacoes *string

	CriadoEm     time.Time `gorm:"autoCreateTime;index"`
	AtualizadoEm time.Time `gorm:"autoUpdateTime"`
}

func (PedidoCatalogo) TableName() string { return "pedidos_catalogo" }

// RecalcularTotais derives subtotal and valor_total from the items.
func (p *PedidoCatalogo) RecalcularTotais() {
	subtotal := decimal.Zero
	for _, item := range p.Items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	p.Subtotal = subtotal.Round(2)
	p.ValorTotal = p.Subtotal.Sub(p.Desconto).Round(2)
}
