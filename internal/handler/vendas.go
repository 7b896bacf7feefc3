package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/middleware"
	"github.com/juliohebert/loja-sub002/internal/repository"
	"github.com/juliohebert/loja-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// VendaHandler exposes the read-only sales listing. Sales are written by the
// PDV collaborator; here they are only consulted.
type VendaHandler struct{ repo repository.VendaRepository }

func NewVendaHandler(repo repository.VendaRepository) *VendaHandler {
	return &VendaHandler{repo: repo}
}

// Listar godoc
// @Summary Lista as vendas do tenant (somente leitura)
// @Tags vendas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.VendaListResponse
// @Router /v1/vendas [get]
func (h *VendaHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	filter := dto.VendaFilter{
		DataInicio: c.Query("data_inicio"),
		DataFim:    c.Query("data_fim"),
		Page:       page,
		Limit:      limit,
	}

	claims := middleware.GetClaims(c)
	vendas, total, err := h.repo.List(c.Request.Context(), claims.TenantID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		v := &vendas[i]
		data = append(data, dto.VendaResponse{
			ID:             v.ID.String(),
			NumeroVenda:    v.NumeroVenda,
			Total:          v.Total,
			FormaPagamento: service.FormaPagamentoDaVenda(v),
			Observacoes:    v.Observacoes,
			CriadoEm:       v.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, dto.VendaListResponse{Data: data, Total: total, Page: page, Limit: limit})
}
