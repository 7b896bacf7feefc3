package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/juliohebert/loja-sub002/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextoComBody(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindAndValidate_CamposComNomeJSON(t *testing.T) {
	// Checkout sem telefone: o envelope de validação deve nomear o campo pela
	// chave json enviada pelo cliente, a mesma usada pela camada de serviço.
	body := `{
		"cliente_nome": "Maria Souza",
		"items": [{"produto_id": "b6f4c6e0-0000-4000-8000-000000000001", "quantidade": 1}]
	}`
	c, w := contextoComBody(t, body)

	var req dto.CriarPedidoRequest
	ok := bindAndValidate(c, &req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Detail string            `json:"detail"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "cliente_telefone")
	assert.NotContains(t, resp.Fields, "ClienteTelefone")
}

func TestBindAndValidate_JSONInvalido(t *testing.T) {
	c, w := contextoComBody(t, "{não é json")

	var req dto.CriarPedidoRequest
	ok := bindAndValidate(c, &req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
