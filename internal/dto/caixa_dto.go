package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	SaldoInicial decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
	Observacoes  *string         `json:"observacoes"`
}

type FecharCaixaRequest struct {
	CaixaID     string          `json:"caixa_id"    validate:"required,uuid"`
	SaldoFinal  decimal.Decimal `json:"saldo_final" validate:"min=0"`
	Observacoes *string         `json:"observacoes"`
}

// CaixaFilter drives the session history listing.
type CaixaFilter struct {
	Status     string // "" = todos
	DataInicio string // YYYY-MM-DD, inclusive
	DataFim    string // YYYY-MM-DD, inclusive
	Page       int
	Limit      int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// FormaPagamentoTotal is one bucket of the per-payment-method grouping.
type FormaPagamentoTotal struct {
	Total      decimal.Decimal `json:"total"`
	Quantidade int             `json:"quantidade"`
}

// ResumoCaixaResponse is the reconciliation summary: attributed sales plus the
// expected balance derived from them. Re-runnable at any time without side
// effects, for both the live dashboard and the closing report.
type ResumoCaixaResponse struct {
	TotalVendas       decimal.Decimal                `json:"total_vendas"`
	Quantidade        int                            `json:"quantidade"`
	PorFormaPagamento map[string]FormaPagamentoTotal `json:"por_forma_pagamento"`
	SaldoEsperado     decimal.Decimal                `json:"saldo_esperado"`
}

type CaixaResponse struct {
	ID             string               `json:"id"`
	OperadorID     string               `json:"operador_id"`
	SaldoInicial   decimal.Decimal      `json:"saldo_inicial"`
	SaldoFinal     *decimal.Decimal     `json:"saldo_final,omitempty"`
	Status         string               `json:"status"`
	Observacoes    *string              `json:"observacoes,omitempty"`
	DataAbertura   string               `json:"data_abertura"`
	DataFechamento *string              `json:"data_fechamento,omitempty"`
	Resumo         *ResumoCaixaResponse `json:"resumo,omitempty"`
}

type CaixaListResponse struct {
	Data  []CaixaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
