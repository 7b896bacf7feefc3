package handler

import (
	"net/http"
	"strconv"

	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/middleware"
	"github.com/juliohebert/loja-sub002/internal/model"
	"github.com/juliohebert/loja-sub002/internal/repository"
	"github.com/juliohebert/loja-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves the public (unauthenticated) storefront: product
// listing and checkout submission. The tenant comes from the X-Tenant-ID
// header resolved by middleware.TenantHeader.
type CatalogoHandler struct {
	pedidoSvc   service.PedidoService
	produtoRepo repository.ProdutoRepository
}

func NewCatalogoHandler(pedidoSvc service.PedidoService, produtoRepo repository.ProdutoRepository) *CatalogoHandler {
	return &CatalogoHandler{pedidoSvc: pedidoSvc, produtoRepo: produtoRepo}
}

// ListarProdutos godoc
// @Summary Lista os produtos ativos do catálogo público
// @Tags catalogo
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Success 200 {object} dto.ProdutoListResponse
// @Router /v1/catalogo/produtos [get]
func (h *CatalogoHandler) ListarProdutos(c *gin.Context) {
	tenantID := middleware.GetTenant(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	produtos, total, err := h.produtoRepo.ListAtivos(c.Request.Context(), tenantID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		data = append(data, produtoToResponse(&produtos[i]))
	}
	c.JSON(http.StatusOK, dto.ProdutoListResponse{Data: data, Total: total, Page: page, Limit: limit})
}

// CriarPedido godoc
// @Summary Submete o checkout do carrinho público
// @Tags catalogo
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param body body dto.CriarPedidoRequest true "Dados do pedido"
// @Success 201 {object} dto.PedidoResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/catalogo/pedidos [post]
func (h *CatalogoHandler) CriarPedido(c *gin.Context) {
	var req dto.CriarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	// Public checkout always enters as "catalogo"; the field is not trusted
	// from an unauthenticated client.
	req.Origem = model.OrigemCatalogo

	carrinho := service.NovoCarrinho()
	for _, item := range req.Items {
		carrinho.AdicionarItem(service.ItemCarrinho{
			ProdutoID:     item.ProdutoID,
			VariacaoID:    item.VariacaoID,
			Nome:          item.Nome,
			Tamanho:       item.Tamanho,
			Cor:           item.Cor,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			ImagemURL:     item.ImagemURL,
		})
	}
	submissao, err := carrinho.Submit(service.DadosCliente{
		Nome:     req.ClienteNome,
		Telefone: req.ClienteTelefone,
		Email:    req.ClienteEmail,
		Endereco: req.ClienteEndereco,
	}, req.Observacoes)
	if err != nil {
		respondError(c, err)
		return
	}

	tenantID := middleware.GetTenant(c)
	resp, err := h.pedidoSvc.Criar(c.Request.Context(), tenantID, *submissao)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func produtoToResponse(p *model.Produto) dto.ProdutoResponse {
	variacoes := make([]dto.VariacaoResponse, 0, len(p.Variacoes))
	for _, v := range p.Variacoes {
		variacoes = append(variacoes, dto.VariacaoResponse{
			ID:      v.ID.String(),
			Tamanho: v.Tamanho,
			Cor:     v.Cor,
			Estoque: v.Estoque,
		})
	}
	return dto.ProdutoResponse{
		ID:         p.ID.String(),
		Nome:       p.Nome,
		Marca:      p.Marca,
		PrecoVenda: p.PrecoVenda,
		ImagemURL:  p.ImagemURL,
		Variacoes:  variacoes,
	}
}
