package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/juliohebert/loja-sub002/internal/domain"
	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/model"
	"github.com/juliohebert/loja-sub002/internal/repository"
	"github.com/juliohebert/loja-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubCaixaRepo is an in-memory CaixaRepository. Create reproduces the partial
// unique index: a second open session for the same tenant is rejected.
type stubCaixaRepo struct {
	caixas map[uuid.UUID]*model.Caixa
}

func newStubCaixaRepo() *stubCaixaRepo {
	return &stubCaixaRepo{caixas: make(map[uuid.UUID]*model.Caixa)}
}

func (r *stubCaixaRepo) Create(_ context.Context, c *model.Caixa) error {
	for _, existente := range r.caixas {
		if existente.TenantID == c.TenantID && existente.Status == model.CaixaAberto {
			return domain.E(domain.KindSessionAlreadyOpen, "Já existe um caixa aberto para esta loja")
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.caixas[c.ID] = c
	return nil
}

func (r *stubCaixaRepo) FindByID(_ context.Context, tenantID string, id uuid.UUID) (*model.Caixa, error) {
	c, ok := r.caixas[id]
	if !ok || c.TenantID != tenantID {
		return nil, domain.E(domain.KindSessionNotFound, "Caixa não encontrado")
	}
	copia := *c
	return &copia, nil
}

func (r *stubCaixaRepo) FindAberto(_ context.Context, tenantID string) (*model.Caixa, error) {
	for _, c := range r.caixas {
		if c.TenantID == tenantID && c.Status == model.CaixaAberto {
			copia := *c
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *stubCaixaRepo) Fechar(_ context.Context, tenantID string, id uuid.UUID, saldoFinal decimal.Decimal, observacoes *string, fechadoEm time.Time) (bool, error) {
	c, ok := r.caixas[id]
	if !ok || c.TenantID != tenantID || c.Status != model.CaixaAberto {
		return false, nil
	}
	c.Status = model.CaixaFechado
	c.SaldoFinal = &saldoFinal
	c.DataFechamento = &fechadoEm
	if observacoes != nil {
		c.Observacoes = observacoes
	}
	return true, nil
}

func (r *stubCaixaRepo) List(_ context.Context, tenantID string, filter dto.CaixaFilter) ([]model.Caixa, int64, error) {
	var out []model.Caixa
	for _, c := range r.caixas {
		if c.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

var _ repository.CaixaRepository = (*stubCaixaRepo)(nil)

// stubVendaRepo serves a fixed slice of sales, filtered by interval the same
// way the SQL implementation does.
type stubVendaRepo struct {
	vendas []model.Venda
}

func (r *stubVendaRepo) ListByInterval(_ context.Context, tenantID string, desde time.Time, ate *time.Time) ([]model.Venda, error) {
	var out []model.Venda
	for _, v := range r.vendas {
		if v.TenantID != tenantID || v.CreatedAt.Before(desde) {
			continue
		}
		if ate != nil && v.CreatedAt.After(*ate) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *stubVendaRepo) List(_ context.Context, tenantID string, _ dto.VendaFilter) ([]model.Venda, int64, error) {
	return r.vendas, int64(len(r.vendas)), nil
}

var _ repository.VendaRepository = (*stubVendaRepo)(nil)

func buildCaixaSvc(vendas ...model.Venda) (service.CaixaService, *stubCaixaRepo) {
	repo := newStubCaixaRepo()
	svc := service.NewCaixaService(repo, &stubVendaRepo{vendas: vendas})
	return svc, repo
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAbrirCaixa_SegundaAberturaRejeitada(t *testing.T) {
	svc, _ := buildCaixaSvc()
	ctx := context.Background()
	operador := uuid.New()

	primeiro, err := svc.Abrir(ctx, "loja-a", operador, dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CaixaAberto, primeiro.Status)

	_, err = svc.Abrir(ctx, "loja-a", operador, dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(50),
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindSessionAlreadyOpen))

	// Outro tenant não é afetado
	_, err = svc.Abrir(ctx, "loja-b", operador, dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(80),
	})
	assert.NoError(t, err)
}

func TestFecharCaixa_ResumoDeConciliacao(t *testing.T) {
	abertura := time.Now().Add(-4 * time.Hour)
	vendas := []model.Venda{
		{ID: uuid.New(), TenantID: "loja-a", Total: decimal.NewFromFloat(45), FormaPagamento: "Dinheiro", CreatedAt: abertura.Add(time.Hour)},
		{ID: uuid.New(), TenantID: "loja-a", Total: decimal.NewFromFloat(30), FormaPagamento: "Pix", CreatedAt: abertura.Add(2 * time.Hour)},
	}
	svc, repo := buildCaixaSvc(vendas...)
	ctx := context.Background()

	caixa := &model.Caixa{
		TenantID:     "loja-a",
		OperadorID:   uuid.New(),
		SaldoInicial: decimal.NewFromFloat(100),
		Status:       model.CaixaAberto,
		DataAbertura: abertura,
	}
	require.NoError(t, repo.Create(ctx, caixa))

	fechado, err := svc.Fechar(ctx, "loja-a", dto.FecharCaixaRequest{
		CaixaID:    caixa.ID.String(),
		SaldoFinal: decimal.NewFromFloat(170),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CaixaFechado, fechado.Status)
	require.NotNil(t, fechado.SaldoFinal)
	require.NotNil(t, fechado.Resumo)

	assert.Equal(t, "75", fechado.Resumo.TotalVendas.String())
	assert.Equal(t, 2, fechado.Resumo.Quantidade)
	assert.Equal(t, "175", fechado.Resumo.SaldoEsperado.String())
	assert.Equal(t, "45", fechado.Resumo.PorFormaPagamento["Dinheiro"].Total.String())
	assert.Equal(t, "30", fechado.Resumo.PorFormaPagamento["Pix"].Total.String())
}

func TestFecharCaixa_JaFechado(t *testing.T) {
	svc, _ := buildCaixaSvc()
	ctx := context.Background()

	aberto, err := svc.Abrir(ctx, "loja-a", uuid.New(), dto.AbrirCaixaRequest{
		SaldoInicial: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	req := dto.FecharCaixaRequest{CaixaID: aberto.ID, SaldoFinal: decimal.NewFromFloat(100)}
	_, err = svc.Fechar(ctx, "loja-a", req)
	require.NoError(t, err)

	// Fechamento não é reabrível nem repetível
	_, err = svc.Fechar(ctx, "loja-a", req)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindSessionAlreadyClosed))
}

func TestFecharCaixa_NaoEncontrado(t *testing.T) {
	svc, _ := buildCaixaSvc()
	_, err := svc.Fechar(context.Background(), "loja-a", dto.FecharCaixaRequest{
		CaixaID:    uuid.NewString(),
		SaldoFinal: decimal.NewFromFloat(10),
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))
}

func TestObterAberto_SemSessao(t *testing.T) {
	svc, _ := buildCaixaSvc()
	resp, err := svc.ObterAberto(context.Background(), "loja-a")
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestObterAberto_ComResumoAoVivo(t *testing.T) {
	abertura := time.Now().Add(-time.Hour)
	vendas := []model.Venda{
		{ID: uuid.New(), TenantID: "loja-a", Total: decimal.NewFromFloat(25), FormaPagamento: "Dinheiro", CreatedAt: abertura.Add(10 * time.Minute)},
	}
	svc, repo := buildCaixaSvc(vendas...)
	ctx := context.Background()

	caixa := &model.Caixa{
		TenantID:     "loja-a",
		OperadorID:   uuid.New(),
		SaldoInicial: decimal.NewFromFloat(50),
		Status:       model.CaixaAberto,
		DataAbertura: abertura,
	}
	require.NoError(t, repo.Create(ctx, caixa))

	resp, err := svc.ObterAberto(ctx, "loja-a")
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Resumo)
	assert.Equal(t, "25", resp.Resumo.TotalVendas.String())
	assert.Equal(t, "75", resp.Resumo.SaldoEsperado.String())
}
