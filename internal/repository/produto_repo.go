package repository

import (
	"context"
	"errors"

	"github.com/juliohebert/loja-sub002/internal/domain"
	"github.com/juliohebert/loja-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProdutoRepository gives read-only access to the catalog collaborator's
// product records. (nil, nil) means "no such product" — checkout maps that to
// a validation rejection, not an infra error.
type ProdutoRepository interface {
	FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Produto, error)
	ListAtivos(ctx context.Context, tenantID string, page, limit int) ([]model.Produto, int64, error)
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).
		Preload("Variacoes").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Infra("produto find", err)
	}
	return &p, nil
}

func (r *produtoRepo) ListAtivos(ctx context.Context, tenantID string, page, limit int) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{}).
		Where("tenant_id = ? AND ativo = ?", tenantID, true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.Infra("produto count", err)
	}
	err := q.Preload("Variacoes").
		Order("nome ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&produtos).Error
	if err != nil {
		return nil, 0, domain.Infra("produto list", err)
	}
	return produtos, total, nil
}
