package repository

import (
	"context"
	"time"

	"github.com/juliohebert/loja-sub002/internal/domain"
	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/model"

	"gorm.io/gorm"
)

// VendaRepository is strictly read-only: sales are created by the PDV
// collaborator and this engine only attributes and aggregates them.
type VendaRepository interface {
	// ListByInterval returns the tenant's sales with created_at >= desde and,
	// when ate is non-nil, created_at <= ate. A nil upper bound serves the
	// live view of a still-open session.
	ListByInterval(ctx context.Context, tenantID string, desde time.Time, ate *time.Time) ([]model.Venda, error)
	List(ctx context.Context, tenantID string, filter dto.VendaFilter) ([]model.Venda, int64, error)
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) ListByInterval(ctx context.Context, tenantID string, desde time.Time, ate *time.Time) ([]model.Venda, error) {
	var vendas []model.Venda
	q := r.db.WithContext(ctx).
		Where("tenant_id = ? AND created_at >= ?", tenantID, desde)
	if ate != nil {
		q = q.Where("created_at <= ?", *ate)
	}
	if err := q.Order("created_at ASC").Find(&vendas).Error; err != nil {
		return nil, domain.Infra("venda list interval", err)
	}
	return vendas, nil
}

func (r *vendaRepo) List(ctx context.Context, tenantID string, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venda{}).Where("tenant_id = ?", tenantID)
	if filter.DataInicio != "" {
		q = q.Where("DATE(created_at) >= ?", filter.DataInicio)
	}
	if filter.DataFim != "" {
		q = q.Where("DATE(created_at) <= ?", filter.DataFim)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.Infra("venda count", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&vendas).Error
	if err != nil {
		return nil, 0, domain.Infra("venda list", err)
	}
	return vendas, total, nil
}
