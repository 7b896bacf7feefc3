package dto

import "github.com/shopspring/decimal"

// ConversaoItemPDV is one order line mapped to the PDV collaborator's
// line-item shape. Subtotal is quantidade × preco_unitario, computed by the
// engine so the PDV never re-derives it.
type ConversaoItemPDV struct {
	ProdutoID     string          `json:"produto_id"`
	VariacaoID    *string         `json:"variacao_id,omitempty"`
	Nome          string          `json:"nome"`
	Cor           string          `json:"cor"`
	Tamanho       string          `json:"tamanho"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ImagemURL     *string         `json:"imagem_url,omitempty"`
}

// ConversaoPDVRequest is the hand-off sent when an order moves
// novo → processando. PedidoID is the idempotency key: the PDV deduplicates
// repeated conversions of the same order.
type ConversaoPDVRequest struct {
	PedidoID        string             `json:"pedido_id"`
	NumeroPedido    string             `json:"numero_pedido"`
	ClienteNome     string             `json:"cliente_nome"`
	ClienteTelefone string             `json:"cliente_telefone"`
	Observacoes     string             `json:"observacoes"`
	Items           []ConversaoItemPDV `json:"items"`
}
