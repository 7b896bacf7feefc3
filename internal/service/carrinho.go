package service

import (
	"regexp"
	"strings"

	"github.com/juliohebert/loja-sub002/internal/domain"
	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/model"

	"github.com/shopspring/decimal"
)

// reTelefoneBR accepts Brazilian phone formats: optional parenthesized DDD
// (two digits, first non-zero), optional ninth digit, optional hyphen.
// Spaces are stripped before matching.
var reTelefoneBR = regexp.MustCompile(`^\(?[1-9]{2}\)?\s?9?\d{4}-?\d{4}$`)

var reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TelefoneBRValido reports whether telefone is a plausible Brazilian number.
func TelefoneBRValido(telefone string) bool {
	return reTelefoneBR.MatchString(strings.ReplaceAll(telefone, " ", ""))
}

// ItemCarrinho is one line of an in-progress cart. Lines are keyed by the
// (produto, tamanho, cor) triple: re-adding the same variant bumps the
// quantity instead of opening a second line.
type ItemCarrinho struct {
	ProdutoID     string          `json:"produto_id"`
	VariacaoID    *string         `json:"variacao_id,omitempty"`
	Nome          string          `json:"nome"`
	Tamanho       string          `json:"tamanho"`
	Cor           string          `json:"cor"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	ImagemURL     *string         `json:"imagem_url,omitempty"`
}

// Subtotal returns quantidade × preco_unitario for the line.
func (i ItemCarrinho) Subtotal() decimal.Decimal {
	return i.PrecoUnitario.Mul(decimal.NewFromInt(int64(i.Quantidade)))
}

// DadosCliente carries the customer identification collected at checkout.
type DadosCliente struct {
	Nome     string  `json:"nome"`
	Telefone string  `json:"telefone"`
	Email    *string `json:"email,omitempty"`
	Endereco *string `json:"endereco,omitempty"`
}

// Carrinho accumulates items before a checkout submission. It is a pure
// value object: no repository or network collaborator is touched until the
// submission is handed to PedidoService.
type Carrinho struct {
	Items []ItemCarrinho
}

func NovoCarrinho() *Carrinho {
	return &Carrinho{}
}

func (c *Carrinho) chave(item ItemCarrinho) int {
	for i, existente := range c.Items {
		if existente.ProdutoID == item.ProdutoID &&
			existente.Tamanho == item.Tamanho &&
			existente.Cor == item.Cor {
			return i
		}
	}
	return -1
}

// AdicionarItem merges the item into the cart. An existing line for the same
// (produto, tamanho, cor) has its quantity incremented; the stored price is
// the most recent one seen.
func (c *Carrinho) AdicionarItem(item ItemCarrinho) {
	if item.Quantidade <= 0 {
		item.Quantidade = 1
	}
	if i := c.chave(item); i >= 0 {
		c.Items[i].Quantidade += item.Quantidade
		c.Items[i].PrecoUnitario = item.PrecoUnitario
		return
	}
	c.Items = append(c.Items, item)
}

// AtualizarQuantidade sets the quantity of the matching line. A quantity of
// zero or less removes the line.
func (c *Carrinho) AtualizarQuantidade(produtoID, tamanho, cor string, quantidade int) {
	i := c.chave(ItemCarrinho{ProdutoID: produtoID, Tamanho: tamanho, Cor: cor})
	if i < 0 {
		return
	}
	if quantidade <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return
	}
	c.Items[i].Quantidade = quantidade
}

// RemoverItem drops the matching line, if present.
func (c *Carrinho) RemoverItem(produtoID, tamanho, cor string) {
	c.AtualizarQuantidade(produtoID, tamanho, cor, 0)
}

// Vazio reports whether the cart has no lines.
func (c *Carrinho) Vazio() bool {
	return len(c.Items) == 0
}

// TotalItens returns the summed quantity across all lines.
func (c *Carrinho) TotalItens() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantidade
	}
	return total
}

// Subtotal sums the line subtotals.
func (c *Carrinho) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

// Total is the payable amount. Carts carry no discount; the order applies it.
func (c *Carrinho) Total() decimal.Decimal {
	return c.Subtotal()
}

// ValidarCliente checks the checkout form. All failing fields are reported
// together so the caller renders every message at once.
func ValidarCliente(cliente DadosCliente) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(cliente.Nome) == "" {
		fields["cliente_nome"] = "nome é obrigatório"
	}
	if strings.TrimSpace(cliente.Telefone) == "" {
		fields["cliente_telefone"] = "telefone é obrigatório"
	} else if !TelefoneBRValido(cliente.Telefone) {
		fields["cliente_telefone"] = "telefone inválido"
	}
	if cliente.Email != nil && *cliente.Email != "" && !reEmail.MatchString(*cliente.Email) {
		fields["cliente_email"] = "email inválido"
	}
	return fields
}

// Submit validates the customer data and the cart contents and produces a
// checkout request ready for PedidoService. A validation failure returns a
// domain error with every failing field and touches no collaborator.
func (c *Carrinho) Submit(cliente DadosCliente, observacoes *string) (*dto.CriarPedidoRequest, error) {
	fields := ValidarCliente(cliente)
	if c.Vazio() {
		fields["items"] = "o carrinho está vazio"
	}
	if len(fields) > 0 {
		return nil, domain.Validation(fields)
	}

	items := make([]dto.ItemPedidoRequest, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, dto.ItemPedidoRequest{
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

	return &dto.CriarPedidoRequest{
		ClienteNome:     strings.TrimSpace(cliente.Nome),
		ClienteTelefone: strings.TrimSpace(cliente.Telefone),
		ClienteEmail:    cliente.Email,
		ClienteEndereco: cliente.Endereco,
		Items:           items,
		Observacoes:     observacoes,
		Origem:          model.OrigemCatalogo,
	}, nil
}
