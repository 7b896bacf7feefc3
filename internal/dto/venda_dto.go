package dto

import "github.com/shopspring/decimal"

// VendaFilter selects sales for the read-only listing.
type VendaFilter struct {
	DataInicio string // YYYY-MM-DD, inclusive
	DataFim    string // YYYY-MM-DD, inclusive
	Page       int
	Limit      int
}

type VendaResponse struct {
	ID             string          `json:"id"`
	NumeroVenda    string          `json:"numero_venda"`
	Total          decimal.Decimal `json:"total"`
	FormaPagamento string          `json:"forma_pagamento"`
	Observacoes    *string         `json:"observacoes,omitempty"`
	CriadoEm       string          `json:"criado_em"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
