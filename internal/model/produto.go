package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is the catalog collaborator's product record. The engine only reads
// it — to validate checkout items and snapshot name/price into order lines.
// Catalog CRUD lives elsewhere.
type Produto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     string          `gorm:"type:varchar(100);not null;index"`
	Nome         string          `gorm:"type:varchar(200);not null"`
	Marca        *string         `gorm:"type:varchar(100)"`
	PrecoVenda   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ImagemURL    *string
	Ativo        bool `gorm:"not null;default:true"`
	CriadoEm     time.Time
	AtualizadoEm time.Time

	Variacoes []ProdutoVariacao `gorm:"foreignKey:ProdutoID"`
}

func (Produto) TableName() string { return "produtos" }

// ProdutoVariacao is a size/color variant with its own stock count.
type ProdutoVariacao struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tamanho   string    `gorm:"type:varchar(20);not null"`
	Cor       string    `gorm:"type:varchar(50);not null"`
	Estoque   int       `gorm:"not null;default:0"`
}

func (ProdutoVariacao) TableName() string { return "produto_variacoes" }
