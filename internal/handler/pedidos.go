package handler

import (
	"net/http"
	"strconv"

	"github.com/juliohebert/loja-sub002/internal/apierror"
	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/middleware"
	"github.com/juliohebert/loja-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PedidoHandler struct{ svc service.PedidoService }

func NewPedidoHandler(svc service.PedidoService) *PedidoHandler { return &PedidoHandler{svc: svc} }

// Listar godoc
// @Summary Lista os pedidos do tenant com filtros e paginação
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param busca query string false "Busca por número, nome ou telefone"
// @Param status query string false "Filtro por status"
// @Param origem query string false "Filtro por origem"
// @Success 200 {object} dto.PedidoListResponse
// @Router /v1/pedidos [get]
func (h *PedidoHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter := dto.PedidoFilter{
		Busca:      c.Query("busca"),
		Status:     c.Query("status"),
		Origem:     c.Query("origem"),
		DataInicio: c.Query("data_inicio"),
		DataFim:    c.Query("data_fim"),
		Page:       page,
		Limit:      limit,
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Listar(c.Request.Context(), claims.TenantID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obter returns a single order by id.
func (h *PedidoHandler) Obter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Obter(c.Request.Context(), claims.TenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Criar godoc
// @Summary Registra um pedido em nome do cliente (balcão / WhatsApp)
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarPedidoRequest true "Dados do pedido"
// @Success 201 {object} dto.PedidoResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/pedidos [post]
func (h *PedidoHandler) Criar(c *gin.Context) {
	var req dto.CriarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Criar(c.Request.Context(), claims.TenantID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AtualizarStatus godoc
// @Summary Aplica uma transição de status ao pedido
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do pedido"
// @Param body body dto.AtualizarStatusPedidoRequest true "Novo status"
// @Success 200 {object} dto.PedidoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/pedidos/{id}/status [patch]
func (h *PedidoHandler) AtualizarStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarStatusPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.AtualizarStatus(c.Request.Context(), claims.TenantID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar edits customer data on a non-terminal order.
func (h *PedidoHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Atualizar(c.Request.Context(), claims.TenantID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar handles DELETE as a cancellation transition — orders are never
// removed from storage.
func (h *PedidoHandler) Cancelar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.Cancelar(c.Request.Context(), claims.TenantID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Estatisticas aggregates the tenant's orders for the given date range.
func (h *PedidoHandler) Estatisticas(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Estatisticas(c.Request.Context(), claims.TenantID,
		c.Query("data_inicio"), c.Query("data_fim"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
