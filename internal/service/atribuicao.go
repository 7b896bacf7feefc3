package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// FormaNaoInformada is the bucket for sales whose payment method cannot be
// resolved even through the observations fallback.
const FormaNaoInformada = "Não informado"

// Legacy sales carry the payment method inside free-text observations as
// "Forma de pagamento: <valor> | ...". Best-effort fallback only — new sales
// must set forma_pagamento as a structured field.
var reFormaPagamento = regexp.MustCompile(`(?i)Forma de pagamento:\s*([^|]+)`)

// VendaPertenceAoCaixa decides timestamp membership: the sale belongs to the
// session when data_abertura <= created_at, bounded above by data_fechamento
// only once the session is closed. An open session keeps accruing — its live
// view is intentionally unbounded above, mirroring how the closed-session
// detail view applies both bounds.
func VendaPertenceAoCaixa(caixa *model.Caixa, venda *model.Venda) bool {
	if venda.CreatedAt.Before(caixa.DataAbertura) {
		return false
	}
	if caixa.DataFechamento != nil && venda.CreatedAt.After(*caixa.DataFechamento) {
		return false
	}
	return true
}

// FormaPagamentoDaVenda resolves the payment-method label for grouping.
// Resolution order: structured field, then the observations pattern, then the
// "Não informado" bucket (logged as an integrity warning, never fatal).
func FormaPagamentoDaVenda(v *model.Venda) string {
	if f := strings.TrimSpace(v.FormaPagamento); f != "" {
		return f
	}
	if v.Observacoes != nil {
		if m := reFormaPagamento.FindStringSubmatch(*v.Observacoes); m != nil {
			if f := strings.TrimSpace(m[1]); f != "" {
				return f
			}
		}
	}
	log.Warn().
		Str("venda_id", v.ID.String()).
		Str("tenant_id", v.TenantID).
		Msg("venda sem forma de pagamento resolvível — agrupada como não informado")
	return FormaNaoInformada
}

// ResolverAtribuicao computes the reconciliation summary for a session from
// the tenant's sales. Pure and idempotent: re-runnable at any time (live
// dashboards included) without side effects on Venda or Caixa records.
// saldo_esperado = saldo_inicial + Σ(vendas atribuídas).
func ResolverAtribuicao(caixa *model.Caixa, vendas []model.Venda) *dto.ResumoCaixaResponse {
	resumo := &dto.ResumoCaixaResponse{
		TotalVendas:       decimal.Zero,
		PorFormaPagamento: make(map[string]dto.FormaPagamentoTotal),
	}

	for i := range vendas {
		v := &vendas[i]
		if !VendaPertenceAoCaixa(caixa, v) {
			continue
		}
		resumo.TotalVendas = resumo.TotalVendas.Add(v.Total)
		resumo.Quantidade++

		forma := FormaPagamentoDaVenda(v)
		bucket := resumo.PorFormaPagamento[forma]
		bucket.Total = bucket.Total.Add(v.Total)
		bucket.Quantidade++
		resumo.PorFormaPagamento[forma] = bucket
	}

	resumo.TotalVendas = resumo.TotalVendas.Round(2)
	resumo.SaldoEsperado = caixa.SaldoInicial.Add(resumo.TotalVendas).Round(2)
	return resumo
}

// IntervaloAtribuicao returns the query bounds used to prefetch candidate
// sales for a session: always the opening time, plus the closing time once
// the session is closed (nil upper bound while open).
func IntervaloAtribuicao(caixa *model.Caixa) (time.Time, *time.Time) {
	return caixa.DataAbertura, caixa.DataFechamento
}
