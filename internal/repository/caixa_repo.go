package repository

import (
	"context"
	"errors"
	"time"

	"github.com/juliohebert/loja-sub002/internal/domain"
	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaixaRepository interface {
	// Create inserts an open session. The partial unique index
	// uni_caixas_tenant_aberto makes the check-and-create atomic: a second
	// concurrent open for the same tenant fails here with SessionAlreadyOpen.
	Create(ctx context.Context, c *model.Caixa) error
	FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Caixa, error)
	// FindAberto returns (nil, nil) when the tenant has no open session.
	FindAberto(ctx context.Context, tenantID string) (*model.Caixa, error)
	// Fechar is a compare-and-set close: it only fires while status is still
	// "aberto" and reports whether a row was updated.
	Fechar(ctx context.Context, tenantID string, id uuid.UUID, saldoFinal decimal.Decimal, observacoes *string, fechadoEm time.Time) (bool, error)
	List(ctx context.Context, tenantID string, filter dto.CaixaFilter) ([]model.Caixa, int64, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) Create(ctx context.Context, c *model.Caixa) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.E(domain.KindSessionAlreadyOpen, "Já existe um caixa aberto para esta loja")
	}
	return domain.Infra("caixa create", err)
}

func (r *caixaRepo) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.E(domain.KindSessionNotFound, "Caixa não encontrado")
	}
	if err != nil {
		return nil, domain.Infra("caixa find", err)
	}
	return &c, nil
}

func (r *caixaRepo) FindAberto(ctx context.Context, tenantID string) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, model.CaixaAberto).
		Order("data_abertura DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Infra("caixa find aberto", err)
	}
	return &c, nil
}

func (r *caixaRepo) Fechar(ctx context.Context, tenantID string, id uuid.UUID, saldoFinal decimal.Decimal, observacoes *string, fechadoEm time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":          model.CaixaFechado,
		"saldo_final":     saldoFinal,
		"data_fechamento": fechadoEm,
	}
	if observacoes != nil {
		updates["observacoes"] = *observacoes
	}
	res := r.db.WithContext(ctx).Model(&model.Caixa{}).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, id, model.CaixaAberto).
		Updates(updates)
	if res.Error != nil {
		return false, domain.Infra("caixa fechar", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *caixaRepo) List(ctx context.Context, tenantID string, filter dto.CaixaFilter) ([]model.Caixa, int64, error) {
	var caixas []model.Caixa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Caixa{}).Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DataInicio != "" {
		q = q.Where("data_abertura >= ?", filter.DataInicio)
	}
	if filter.DataFim != "" {
		q = q.Where("DATE(data_abertura) <= ?", filter.DataFim)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.Infra("caixa count", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("data_abertura DESC").Offset(offset).Limit(filter.Limit).Find(&caixas).Error
	if err != nil {
		return nil, 0, domain.Infra("caixa list", err)
	}
	return caixas, total, nil
}
