package service

import (
	"context"
	"time"

	"github.com/juliohebert/loja-sub002/internal/domain"
	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/model"
	"github.com/juliohebert/loja-sub002/internal/repository"

	"github.com/google/uuid"
)

type CaixaService interface {
	Abrir(ctx context.Context, tenantID string, operadorID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	// Fechar is irreversible — there is no reopen. Returns the closed session
	// with its final reconciliation summary attached.
	Fechar(ctx context.Context, tenantID string, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error)
	// ObterAberto returns (nil, nil) when no session is open: callers branch
	// on presence, not on an error.
	ObterAberto(ctx context.Context, tenantID string) (*dto.CaixaResponse, error)
	// Resumo recomputes the attribution summary on demand (pull model).
	Resumo(ctx context.Context, tenantID string, caixaID uuid.UUID) (*dto.CaixaResponse, error)
	Historico(ctx context.Context, tenantID string, filter dto.CaixaFilter) (*dto.CaixaListResponse, error)
}

type caixaService struct {
	repo      repository.CaixaRepository
	vendaRepo repository.VendaRepository
}

func NewCaixaService(repo repository.CaixaRepository, vendaRepo repository.VendaRepository) CaixaService {
	return &caixaService{repo: repo, vendaRepo: vendaRepo}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, tenantID string, operadorID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	caixa := &model.Caixa{
		TenantID:     tenantID,
		OperadorID:   operadorID,
		SaldoInicial: req.SaldoInicial.Round(2),
		Observacoes:  req.Observacoes,
		Status:       model.CaixaAberto,
		DataAbertura: time.Now(),
	}
	// No prior read: the partial unique index decides the race. The repo maps
	// the constraint violation to SessionAlreadyOpen and no row is created.
	if err := s.repo.Create(ctx, caixa); err != nil {
		return nil, err
	}
	return caixaToResponse(caixa, nil), nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────

func (s *caixaService) Fechar(ctx context.Context, tenantID string, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error) {
	caixaID, err := uuid.Parse(req.CaixaID)
	if err != nil {
		return nil, domain.Validation(map[string]string{"caixa_id": "inválido"})
	}

	caixa, err := s.repo.FindByID(ctx, tenantID, caixaID)
	if err != nil {
		return nil, err
	}
	if !caixa.Aberto() {
		return nil, domain.E(domain.KindSessionAlreadyClosed, "O caixa já está fechado")
	}

	fechadoEm := time.Now()
	saldoFinal := req.SaldoFinal.Round(2)
	ok, err := s.repo.Fechar(ctx, tenantID, caixaID, saldoFinal, req.Observacoes, fechadoEm)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against a concurrent close.
		return nil, domain.E(domain.KindSessionAlreadyClosed, "O caixa já está fechado")
	}

	caixa.Status = model.CaixaFechado
	caixa.SaldoFinal = &saldoFinal
	caixa.DataFechamento = &fechadoEm
	if req.Observacoes != nil {
		caixa.Observacoes = req.Observacoes
	}

	resumo, err := s.resumoDoCaixa(ctx, caixa)
	if err != nil {
		return nil, err
	}
	return caixaToResponse(caixa, resumo), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *caixaService) ObterAberto(ctx context.Context, tenantID string) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.FindAberto(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, nil
	}
	resumo, err := s.resumoDoCaixa(ctx, caixa)
	if err != nil {
		return nil, err
	}
	return caixaToResponse(caixa, resumo), nil
}

func (s *caixaService) Resumo(ctx context.Context, tenantID string, caixaID uuid.UUID) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.FindByID(ctx, tenantID, caixaID)
	if err != nil {
		return nil, err
	}
	resumo, err := s.resumoDoCaixa(ctx, caixa)
	if err != nil {
		return nil, err
	}
	return caixaToResponse(caixa, resumo), nil
}

func (s *caixaService) Historico(ctx context.Context, tenantID string, filter dto.CaixaFilter) (*dto.CaixaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	caixas, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CaixaResponse, 0, len(caixas))
	for i := range caixas {
		data = append(data, *caixaToResponse(&caixas[i], nil))
	}
	return &dto.CaixaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *caixaService) resumoDoCaixa(ctx context.Context, caixa *model.Caixa) (*dto.ResumoCaixaResponse, error) {
	desde, ate := IntervaloAtribuicao(caixa)
	vendas, err := s.vendaRepo.ListByInterval(ctx, caixa.TenantID, desde, ate)
	if err != nil {
		return nil, err
	}
	return ResolverAtribuicao(caixa, vendas), nil
}

func caixaToResponse(c *model.Caixa, resumo *dto.ResumoCaixaResponse) *dto.CaixaResponse {
	resp := &dto.CaixaResponse{
		ID:           c.ID.String(),
		OperadorID:   c.OperadorID.String(),
		SaldoInicial: c.SaldoInicial,
		SaldoFinal:   c.SaldoFinal,
		Status:       c.Status,
		Observacoes:  c.Observacoes,
		DataAbertura: c.DataAbertura.Format(time.RFC3339),
		Resumo:       resumo,
	}
	if c.DataFechamento != nil {
		t := c.DataFechamento.Format(time.RFC3339)
		resp.DataFechamento = &t
	}
	return resp
}
