package infra

import (
	"fmt"

	"github.com/juliohebert/loja-sub002/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the engine's tables, then applies the idempotent SQL patches GORM cannot
// express — most importantly the partial unique index that makes the
// single-open-session invariant a storage-layer guarantee instead of a
// read-then-write race.
//
// TranslateError is enabled so repositories can match gorm.ErrDuplicatedKey
// instead of inspecting pgconn error codes.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Caixa{},
		&model.Venda{},
		&model.PedidoCatalogo{},
		&model.Produto{},
		&model.ProdutoVariacao{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open session per tenant. The INSERT of a second open
		// session violates this index and surfaces as a duplicated-key error,
		// which the caixa repository maps to SessionAlreadyOpen.
		{"partial unique index on open caixas", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_caixas_tenant_aberto') THEN
    CREATE UNIQUE INDEX uni_caixas_tenant_aberto
        ON caixas (tenant_id)
        WHERE status = 'aberto';
  END IF;
END $$`},
		// numero_pedido is unique within a tenant, not globally.
		{"unique numero_pedido per tenant", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_pedidos_tenant_numero') THEN
    CREATE UNIQUE INDEX uni_pedidos_tenant_numero
        ON pedidos_catalogo (tenant_id, numero_pedido);
  END IF;
END $$`},
		// Attribution queries scan the tenant's sales by timestamp.
		{"index for sale attribution scans", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_vendas_tenant_created') THEN
    CREATE INDEX idx_vendas_tenant_created
        ON vendas (tenant_id, created_at);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
