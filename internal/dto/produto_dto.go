package dto

import "github.com/shopspring/decimal"

// VariacaoResponse exposes a size/color variant of a catalog product.
type VariacaoResponse struct {
	ID      string `json:"id"`
	Tamanho string `json:"tamanho"`
	Cor     string `json:"cor"`
	Estoque int    `json:"estoque"`
}

type ProdutoResponse struct {
	ID         string             `json:"id"`
	Nome       string             `json:"nome"`
	Marca      *string            `json:"marca,omitempty"`
	PrecoVenda decimal.Decimal    `json:"preco_venda"`
	ImagemURL  *string            `json:"imagem_url,omitempty"`
	Variacoes  []VariacaoResponse `json:"variacoes"`
}

type ProdutoListResponse struct {
	Data  []ProdutoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
