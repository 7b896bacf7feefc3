package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venda is a completed point-of-sale transaction. It is created by the PDV
// flow (an external collaborator) and is READ-ONLY to this engine: attribution
// to a cash session is derived from timestamps, never written back.
type Venda struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    string    `gorm:"type:varchar(100);not null;index"`
	NumeroVenda string    `gorm:"type:varchar(50);not null"`

	Total decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// FormaPagamento is the structured payment-method label. Legacy rows may
	// leave it empty and carry the label inside Observacoes instead
	// ("Forma de pagamento: <valor> | ..."); see service.FormaPagamentoDaVenda.
	FormaPagamento string  `gorm:"type:varchar(50)"`
	Observacoes    *string

	CreatedAt time.Time `gorm:"index"`
}

func (Venda) TableName() string { return "vendas" }
