package service_test

import (
	"testing"

	"github.com/juliohebert/loja-sub002/internal/domain"
	"github.com/juliohebert/loja-sub002/internal/model"
	"github.com/juliohebert/loja-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemCamiseta(produtoID string) service.ItemCarrinho {
	return service.ItemCarrinho{
		ProdutoID:     produtoID,
		Nome:          "Camiseta básica",
		Tamanho:       "M",
		Cor:           "Preto",
		Quantidade:    1,
		PrecoUnitario: decimal.NewFromFloat(49.90),
	}
}

func TestCarrinho_MesclaPorVariacao(t *testing.T) {
	c := service.NovoCarrinho()
	produtoID := uuid.NewString()

	c.AdicionarItem(itemCamiseta(produtoID))
	c.AdicionarItem(itemCamiseta(produtoID))

	// Mesma variação: uma linha só, quantidade acumulada
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantidade)
	assert.Equal(t, "99.8", c.Subtotal().String())

	// Tamanho diferente abre linha nova
	outro := itemCamiseta(produtoID)
	outro.Tamanho = "G"
	c.AdicionarItem(outro)
	require.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.TotalItens())

	// Cor diferente também
	cor := itemCamiseta(produtoID)
	cor.Cor = "Branco"
	c.AdicionarItem(cor)
	assert.Len(t, c.Items, 3)
}

func TestCarrinho_QuantidadeZeroRemove(t *testing.T) {
	c := service.NovoCarrinho()
	produtoID := uuid.NewString()
	c.AdicionarItem(itemCamiseta(produtoID))

	c.AtualizarQuantidade(produtoID, "M", "Preto", 5)
	assert.Equal(t, 5, c.Items[0].Quantidade)

	c.AtualizarQuantidade(produtoID, "M", "Preto", 0)
	assert.True(t, c.Vazio())

	// Remoção de linha inexistente é inofensiva
	c.RemoverItem(produtoID, "M", "Preto")
	assert.True(t, c.Vazio())
}

func TestCarrinho_SubmitValido(t *testing.T) {
	c := service.NovoCarrinho()
	c.AdicionarItem(itemCamiseta(uuid.NewString()))

	req, err := c.Submit(service.DadosCliente{
		Nome:     "  Maria Souza  ",
		Telefone: "(11) 98765-4321",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", req.ClienteNome)
	assert.Equal(t, model.OrigemCatalogo, req.Origem)
	require.Len(t, req.Items, 1)
	assert.Equal(t, 1, req.Items[0].Quantidade)
}

func TestCarrinho_SubmitTelefoneInvalido(t *testing.T) {
	c := service.NovoCarrinho()
	c.AdicionarItem(itemCamiseta(uuid.NewString()))

	casos := []string{"", "123", "(01) 98765-4321", "abcdefghijk"}
	for _, telefone := range casos {
		_, err := c.Submit(service.DadosCliente{Nome: "Maria", Telefone: telefone}, nil)
		require.Error(t, err, "telefone %q", telefone)
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, domain.KindValidation, de.Kind)
		assert.Contains(t, de.Fields, "cliente_telefone")
	}
}

func TestCarrinho_SubmitAcumulaFalhas(t *testing.T) {
	c := service.NovoCarrinho()
	email := "não-é-email"

	_, err := c.Submit(service.DadosCliente{Nome: "", Telefone: "", Email: &email}, nil)
	require.Error(t, err)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Fields, "cliente_nome")
	assert.Contains(t, de.Fields, "cliente_telefone")
	assert.Contains(t, de.Fields, "cliente_email")
	assert.Contains(t, de.Fields, "items")
}

func TestTelefoneBRValido_Formatos(t *testing.T) {
	validos := []string{
		"(11) 98765-4321",
		"11987654321",
		"(21) 3456-7890",
		"21 98765 4321",
	}
	for _, tel := range validos {
		assert.True(t, service.TelefoneBRValido(tel), tel)
	}

	invalidos := []string{
		"(01) 98765-4321", // DDD não pode começar com zero
		"9876-4321",       // sem DDD
		"(11) 98765-432",  // dígitos de menos
		"(11) 98765-43210",
		"telefone",
	}
	for _, tel := range invalidos {
		assert.False(t, service.TelefoneBRValido(tel), tel)
	}
}
