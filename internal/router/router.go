package router

import (
	"time"

	"github.com/juliohebert/loja-sub002/internal/config"
	"github.com/juliohebert/loja-sub002/internal/handler"
	"github.com/juliohebert/loja-sub002/internal/infra"
	"github.com/juliohebert/loja-sub002/internal/middleware"
	"github.com/juliohebert/loja-sub002/internal/repository"
	"github.com/juliohebert/loja-sub002/internal/service"
	"github.com/juliohebert/loja-sub002/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, pdvCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	pdvClient := infra.NewPDVClient(cfg.PDVSidecarURL, pdvCB)

	// ── Repositories ─────────────────────────────────────────────────────────
	caixaRepo := repository.NewCaixaRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	caixaSvc := service.NewCaixaService(caixaRepo, vendaRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, produtoRepo, pdvClient, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	caixaH := handler.NewCaixaHandler(caixaSvc)
	pedidosH := handler.NewPedidoHandler(pedidoSvc)
	catalogoH := handler.NewCatalogoHandler(pedidoSvc, produtoRepo)
	vendasH := handler.NewVendaHandler(vendaRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, pdvCB))

	// Public storefront — tenant resolved from X-Tenant-ID
	catalogo := r.Group("/v1/catalogo", middleware.TenantHeader())
	{
		catalogo.GET("/produtos", catalogoH.ListarProdutos)
		catalogo.POST("/pedidos", middleware.CheckoutRateLimiter(), catalogoH.CriarPedido)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operador, supervisor, administrador — declared per-endpoint
		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", middleware.RequireRole("operador", "supervisor", "administrador"), caixaH.Abrir)
			caixa.POST("/fechar", middleware.RequireRole("operador", "supervisor", "administrador"), caixaH.Fechar)
			caixa.GET("/aberto", middleware.RequireRole("operador", "supervisor", "administrador"), caixaH.GetAberto)
			caixa.GET("/:id/resumo", middleware.RequireRole("operador", "supervisor", "administrador"), caixaH.Resumo)
			caixa.GET("/historico", middleware.RequireRole("supervisor", "administrador"), caixaH.Historico)
		}

		pedidos := v1.Group("/pedidos", middleware.RequireRole("operador", "supervisor", "administrador"))
		{
			pedidos.GET("", pedidosH.Listar)
			pedidos.POST("", pedidosH.Criar)
			pedidos.GET("/estatisticas", pedidosH.Estatisticas)
			pedidos.GET("/:id", pedidosH.Obter)
			pedidos.PATCH("/:id/status", pedidosH.AtualizarStatus)
			pedidos.PUT("/:id", pedidosH.Atualizar)
			pedidos.DELETE("/:id", pedidosH.Cancelar)
		}

		v1.GET("/vendas", middleware.RequireRole("operador", "supervisor", "administrador"), vendasH.Listar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
