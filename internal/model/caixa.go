package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caixa status values.
const (
	CaixaAberto  = "aberto"
	CaixaFechado = "fechado"
)

// Caixa represents a bounded cash drawer session for one tenant.
// At most one Caixa per tenant may be "aberto" at any time; the invariant is
// backed by a partial unique index on (tenant_id) WHERE status = 'aberto'
// (see infra.applySchemaPatches), not by an application-level read-then-write.
// A closed session is never reopened and never deleted.
type Caixa struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   string    `gorm:"type:varchar(100);not null;index"`
	OperadorID uuid.UUID `gorm:"type:uuid;not null"`

	SaldoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// SaldoFinal is the physically counted closing balance, absent while open.
	SaldoFinal     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Observacoes    *string
	Status         string    `gorm:"type:varchar(20);not null;default:'aberto'"`
	DataAbertura   time.Time `gorm:"not null"`
	DataFechamento *time.Time
}

func (Caixa) TableName() string { return "caixas" }

// Aberto reports whether the session is still accruing sales.
func (c *Caixa) Aberto() bool { return c.Status == CaixaAberto }
