package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/juliohebert/loja-sub002/internal/domain"
	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	// Create persists a new order inside tx (when non-nil).
	Create(ctx context.Context, tx *gorm.DB, p *model.PedidoCatalogo) error
	FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.PedidoCatalogo, error)
	// UpdateStatusCAS applies a compare-and-set status transition: the update
	// only fires while the stored status still equals "de". Returns false when
	// the row no longer matches (missing or concurrently transitioned).
	UpdateStatusCAS(ctx context.Context, tenantID string, id uuid.UUID, de, para string, observacoes *string) (bool, error)
	// UpdateCliente applies customer-data edits. The terminal-status guard
	// lives in the service; the repo just writes the given fields.
	UpdateCliente(ctx context.Context, tenantID string, id uuid.UUID, updates map[string]interface{}) error
	List(ctx context.Context, tenantID string, filter dto.PedidoFilter) ([]model.PedidoCatalogo, int64, error)
	// ListForStats loads the slim order set feeding the statistics aggregation
	// for the same date-range semantics as List.
	ListForStats(ctx context.Context, tenantID string, dataInicio, dataFim string) ([]model.PedidoCatalogo, error)
	// NextNumeroPedido allocates the next per-tenant human-readable order
	// number, e.g. "#0042". Must be called inside the creation transaction.
	NextNumeroPedido(ctx context.Context, tx *gorm.DB, tenantID string) (string, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.PedidoCatalogo) error {
	dbc := r.db
	if tx != nil {
		dbc = tx
	}
	if err := dbc.WithContext(ctx).Create(p).Error; err != nil {
		return domain.Infra("pedido create", err)
	}
	return nil
}

func (r *pedidoRepo) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.PedidoCatalogo, error) {
	var p model.PedidoCatalogo
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.E(domain.KindOrderNotFound, "Pedido não encontrado")
	}
	if err != nil {
		return nil, domain.Infra("pedido find", err)
	}
	return &p, nil
}

func (r *pedidoRepo) UpdateStatusCAS(ctx context.Context, tenantID string, id uuid.UUID, de, para string, observacoes *string) (bool, error) {
	updates := map[string]interface{}{
		"status":        para,
		"atualizado_em": time.Now(),
	}
	if observacoes != nil {
		updates["observacoes"] = *observacoes
	}
	res := r.db.WithContext(ctx).Model(&model.PedidoCatalogo{}).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, id, de).
		Updates(updates)
	if res.Error != nil {
		return false, domain.Infra("pedido update status", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *pedidoRepo) UpdateCliente(ctx context.Context, tenantID string, id uuid.UUID, updates map[string]interface{}) error {
	updates["atualizado_em"] = time.Now()
	res := r.db.WithContext(ctx).Model(&model.PedidoCatalogo{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(updates)
	if res.Error != nil {
		return domain.Infra("pedido update cliente", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.E(domain.KindOrderNotFound, "Pedido não encontrado")
	}
	return nil
}

func (r *pedidoRepo) List(ctx context.Context, tenantID string, filter dto.PedidoFilter) ([]model.PedidoCatalogo, int64, error) {
	var pedidos []model.PedidoCatalogo
	var total int64

	q := r.db.WithContext(ctx).Model(&model.PedidoCatalogo{}).Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Origem != "" {
		q = q.Where("origem = ?", filter.Origem)
	}
	if filter.DataInicio != "" {
		q = q.Where("DATE(criado_em) >= ?", filter.DataInicio)
	}
	if filter.DataFim != "" {
		q = q.Where("DATE(criado_em) <= ?", filter.DataFim)
	}
	if filter.Busca != "" {
		like := "%" + filter.Busca + "%"
		q = q.Where("numero_pedido ILIKE ? OR cliente_nome ILIKE ? OR cliente_telefone ILIKE ?", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.Infra("pedido count", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("criado_em DESC").Offset(offset).Limit(filter.Limit).Find(&pedidos).Error
	if err != nil {
		return nil, 0, domain.Infra("pedido list", err)
	}
	return pedidos, total, nil
}

func (r *pedidoRepo) ListForStats(ctx context.Context, tenantID string, dataInicio, dataFim string) ([]model.PedidoCatalogo, error) {
	var pedidos []model.PedidoCatalogo
	q := r.db.WithContext(ctx).
		Select("status", "origem", "valor_total").
		Where("tenant_id = ?", tenantID)
	if dataInicio != "" {
		q = q.Where("DATE(criado_em) >= ?", dataInicio)
	}
	if dataFim != "" {
		q = q.Where("DATE(criado_em) <= ?", dataFim)
	}
	if err := q.Find(&pedidos).Error; err != nil {
		return nil, domain.Infra("pedido stats", err)
	}
	return pedidos, nil
}

func (r *pedidoRepo) NextNumeroPedido(ctx context.Context, tx *gorm.DB, tenantID string) (string, error) {
	dbc := r.db
	if tx != nil {
		dbc = tx
	}
	// Per-tenant counter derived from a count inside the creation transaction.
	// A global Postgres sequence would not restart per tenant. The count itself
	// is not race-proof; uni_pedidos_tenant_numero is the real guard — a
	// concurrent insert of the same numero fails the transaction.
	var count int64
	err := dbc.WithContext(ctx).Model(&model.PedidoCatalogo{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	if err != nil {
		return "", domain.Infra("pedido next numero", err)
	}
	return fmt.Sprintf("#%04d", count+1), nil
}
