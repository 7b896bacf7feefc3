package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/juliohebert/loja-sub002/internal/domain"
	"github.com/juliohebert/loja-sub002/internal/dto"
	"github.com/juliohebert/loja-sub002/internal/model"
	"github.com/juliohebert/loja-sub002/internal/repository"
	"github.com/juliohebert/loja-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.PedidoCatalogo
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.PedidoCatalogo)}
}

func (r *stubPedidoRepo) Create(_ context.Context, _ *gorm.DB, p *model.PedidoCatalogo) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copia := *p
	r.pedidos[p.ID] = &copia
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, tenantID string, id uuid.UUID) (*model.PedidoCatalogo, error) {
	p, ok := r.pedidos[id]
	if !ok || p.TenantID != tenantID {
		return nil, domain.E(domain.KindOrderNotFound, "Pedido não encontrado")
	}
	copia := *p
	return &copia, nil
}

func (r *stubPedidoRepo) UpdateStatusCAS(_ context.Context, tenantID string, id uuid.UUID, de, para string, observacoes *string) (bool, error) {
	p, ok := r.pedidos[id]
	if !ok || p.TenantID != tenantID || p.Status != de {
		return false, nil
	}
	p.Status = para
	if observacoes != nil {
		p.Observacoes = observacoes
	}
	return true, nil
}

func (r *stubPedidoRepo) UpdateCliente(_ context.Context, tenantID string, id uuid.UUID, updates map[string]interface{}) error {
	p, ok := r.pedidos[id]
	if !ok || p.TenantID != tenantID {
		return domain.E(domain.KindOrderNotFound, "Pedido não encontrado")
	}
	if nome, ok := updates["cliente_nome"].(string); ok {
		p.ClienteNome = nome
	}
	if tel, ok := updates["cliente_telefone"].(string); ok {
		p.ClienteTelefone = tel
	}
	return nil
}

func (r *stubPedidoRepo) List(_ context.Context, tenantID string, _ dto.PedidoFilter) ([]model.PedidoCatalogo, int64, error) {
	var out []model.PedidoCatalogo
	for _, p := range r.pedidos {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) ListForStats(_ context.Context, tenantID, _, _ string) ([]model.PedidoCatalogo, error) {
	var out []model.PedidoCatalogo
	for _, p := range r.pedidos {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) NextNumeroPedido(_ context.Context, _ *gorm.DB, tenantID string) (string, error) {
	n := 0
	for _, p := range r.pedidos {
		if p.TenantID == tenantID {
			n++
		}
	}
	return fmt.Sprintf("#%04d", n+1), nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

type stubProdutoRepo struct {
	produtos map[uuid.UUID]*model.Produto
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *stubProdutoRepo) seed(nome string, preco float64) *model.Produto {
	p := &model.Produto{
		ID:         uuid.New(),
		TenantID:   "loja-a",
		Nome:       nome,
		PrecoVenda: decimal.NewFromFloat(preco),
		Ativo:      true,
	}
	r.produtos[p.ID] = p
	return p
}

func (r *stubProdutoRepo) FindByID(_ context.Context, tenantID string, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return p, nil
}

func (r *stubProdutoRepo) ListAtivos(_ context.Context, tenantID string, _, _ int) ([]model.Produto, int64, error) {
	var out []model.Produto
	for _, p := range r.produtos {
		if p.TenantID == tenantID && p.Ativo {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.ProdutoRepository = (*stubProdutoRepo)(nil)

// stubConversor records every PDV hand-off and can be set to fail.
type stubConversor struct {
	chamadas []dto.ConversaoPDVRequest
	falha    error
}

func (s *stubConversor) Converter(_ context.Context, _ string, req dto.ConversaoPDVRequest) error {
	if s.falha != nil {
		return s.falha
	}
	s.chamadas = append(s.chamadas, req)
	return nil
}

var _ service.ConversorPDV = (*stubConversor)(nil)

func buildPedidoSvc() (service.PedidoService, *stubPedidoRepo, *stubProdutoRepo, *stubConversor) {
	pedidoRepo := newStubPedidoRepo()
	produtoRepo := newStubProdutoRepo()
	conversor := &stubConversor{}
	svc := service.NewPedidoService(pedidoRepo, produtoRepo, conversor, nil)
	return svc, pedidoRepo, produtoRepo, conversor
}

func criarPedidoTeste(t *testing.T, svc service.PedidoService, produto *model.Produto, qtd int) *dto.PedidoResponse {
	t.Helper()
	resp, err := svc.Criar(context.Background(), "loja-a", dto.CriarPedidoRequest{
		ClienteNome:     "Maria Souza",
		ClienteTelefone: "(11) 98765-4321",
		Items: []dto.ItemPedidoRequest{
			{ProdutoID: produto.ID.String(), Tamanho: "M", Cor: "Preto", Quantidade: qtd},
		},
	})
	require.NoError(t, err)
	return resp
}

// ── Criar ─────────────────────────────────────────────────────────────────────

func TestCriarPedido_TotaisENumeracao(t *testing.T) {
	svc, _, produtoRepo, _ := buildPedidoSvc()
	p := produtoRepo.seed("Camiseta básica", 49.90)

	resp := criarPedidoTeste(t, svc, p, 2)

	assert.Equal(t, "#0001", resp.NumeroPedido)
	assert.Equal(t, model.PedidoNovo, resp.Status)
	assert.Equal(t, model.OrigemCatalogo, resp.Origem)
	assert.Equal(t, "99.8", resp.Subtotal.String())
	assert.Equal(t, "99.8", resp.ValorTotal.String())
	require.Len(t, resp.Items, 1)
	// Preço e nome vêm do catálogo quando o cliente não os envia
	assert.Equal(t, "Camiseta básica", resp.Items[0].Nome)
	assert.Equal(t, "49.9", resp.Items[0].PrecoUnitario.String())

	segundo := criarPedidoTeste(t, svc, p, 1)
	assert.Equal(t, "#0002", segundo.NumeroPedido)
}

func TestCriarPedido_ProdutoInexistente(t *testing.T) {
	svc, _, _, _ := buildPedidoSvc()
	_, err := svc.Criar(context.Background(), "loja-a", dto.CriarPedidoRequest{
		ClienteNome:     "Maria Souza",
		ClienteTelefone: "(11) 98765-4321",
		Items: []dto.ItemPedidoRequest{
			{ProdutoID: uuid.NewString(), Quantidade: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestCriarPedido_SemItems(t *testing.T) {
	svc, _, _, _ := buildPedidoSvc()
	_, err := svc.Criar(context.Background(), "loja-a", dto.CriarPedidoRequest{
		ClienteNome:     "Maria Souza",
		ClienteTelefone: "(11) 98765-4321",
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

// ── AtualizarStatus ───────────────────────────────────────────────────────────

func TestAtualizarStatus_CaminhoFeliz(t *testing.T) {
	svc, _, produtoRepo, conversor := buildPedidoSvc()
	p := produtoRepo.seed("Calça jeans", 129.90)
	pedido := criarPedidoTeste(t, svc, p, 1)
	id := uuid.MustParse(pedido.ID)
	ctx := context.Background()

	for _, status := range []string{
		model.PedidoProcessando, model.PedidoSeparacao, model.PedidoEnviado, model.PedidoEntregue,
	} {
		resp, err := svc.AtualizarStatus(ctx, "loja-a", id, dto.AtualizarStatusPedidoRequest{Status: status})
		require.NoError(t, err, "transição para %s", status)
		assert.Equal(t, status, resp.Status)
	}

	// Exatamente um hand-off ao PDV, disparado em novo→processando
	require.Len(t, conversor.chamadas, 1)
	conv := conversor.chamadas[0]
	assert.Equal(t, pedido.ID, conv.PedidoID)
	assert.Equal(t, "#0001", conv.NumeroPedido)
	assert.Equal(t, "Maria Souza", conv.ClienteNome)
	require.Len(t, conv.Items, 1)
	assert.Equal(t, "129.9", conv.Items[0].Subtotal.String())
}

func TestAtualizarStatus_TransicaoInvalida(t *testing.T) {
	svc, _, produtoRepo, conversor := buildPedidoSvc()
	p := produtoRepo.seed("Tênis", 299.90)
	pedido := criarPedidoTeste(t, svc, p, 1)
	id := uuid.MustParse(pedido.ID)

	// novo → enviado pula etapas
	_, err := svc.AtualizarStatus(context.Background(), "loja-a", id, dto.AtualizarStatusPedidoRequest{
		Status: model.PedidoEnviado,
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))
	assert.Empty(t, conversor.chamadas)
}

func TestAtualizarStatus_TerminalNaoSai(t *testing.T) {
	svc, repo, produtoRepo, _ := buildPedidoSvc()
	p := produtoRepo.seed("Boné", 39.90)
	pedido := criarPedidoTeste(t, svc, p, 1)
	id := uuid.MustParse(pedido.ID)
	ctx := context.Background()

	require.NoError(t, svc.Cancelar(ctx, "loja-a", id))
	armazenado, err := repo.FindByID(ctx, "loja-a", id)
	require.NoError(t, err)
	assert.Equal(t, model.PedidoCancelado, armazenado.Status)

	// Cancelado é terminal: nada sai dele
	_, err = svc.AtualizarStatus(ctx, "loja-a", id, dto.AtualizarStatusPedidoRequest{
		Status: model.PedidoProcessando,
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))
}

func TestAtualizarStatus_PDVRecusaNaoComita(t *testing.T) {
	svc, repo, produtoRepo, conversor := buildPedidoSvc()
	p := produtoRepo.seed("Jaqueta", 349.90)
	pedido := criarPedidoTeste(t, svc, p, 1)
	id := uuid.MustParse(pedido.ID)
	ctx := context.Background()

	conversor.falha = errors.New("pdv indisponível")
	_, err := svc.AtualizarStatus(ctx, "loja-a", id, dto.AtualizarStatusPedidoRequest{
		Status: model.PedidoProcessando,
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInfra))

	// Pedido permanece em "novo" e a transição segue disponível
	armazenado, err := repo.FindByID(ctx, "loja-a", id)
	require.NoError(t, err)
	assert.Equal(t, model.PedidoNovo, armazenado.Status)

	conversor.falha = nil
	_, err = svc.AtualizarStatus(ctx, "loja-a", id, dto.AtualizarStatusPedidoRequest{
		Status: model.PedidoProcessando,
	})
	assert.NoError(t, err)
}

// stalePedidoRepo serves one stale snapshot on the first read, simulating a
// concurrent transition landing between the decision read and the commit.
type stalePedidoRepo struct {
	*stubPedidoRepo
	stale *model.PedidoCatalogo
}

func (r *stalePedidoRepo) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.PedidoCatalogo, error) {
	if r.stale != nil {
		copia := *r.stale
		r.stale = nil
		return &copia, nil
	}
	return r.stubPedidoRepo.FindByID(ctx, tenantID, id)
}

func TestAtualizarStatus_CorridaPerdida(t *testing.T) {
	base := newStubPedidoRepo()
	produtoRepo := newStubProdutoRepo()
	conversor := &stubConversor{}
	repo := &stalePedidoRepo{stubPedidoRepo: base}
	svc := service.NewPedidoService(repo, produtoRepo, conversor, nil)

	p := produtoRepo.seed("Meia", 14.90)
	pedido := criarPedidoTeste(t, svc, p, 1)
	id := uuid.MustParse(pedido.ID)
	ctx := context.Background()

	// A leitura de decisão ainda vê "novo", mas outra operação já cancelou:
	// o CAS não encontra a linha em "novo" e a transição é rejeitada.
	estale := *base.pedidos[id]
	base.pedidos[id].Status = model.PedidoCancelado
	repo.stale = &estale

	_, err := svc.AtualizarStatus(ctx, "loja-a", id, dto.AtualizarStatusPedidoRequest{
		Status: model.PedidoCancelado,
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))
	assert.Empty(t, conversor.chamadas)
}

// ── Atualizar / Estatisticas ──────────────────────────────────────────────────

func TestAtualizarCliente_PedidoTerminalRejeitado(t *testing.T) {
	svc, _, produtoRepo, _ := buildPedidoSvc()
	p := produtoRepo.seed("Bermuda", 79.90)
	pedido := criarPedidoTeste(t, svc, p, 1)
	id := uuid.MustParse(pedido.ID)
	ctx := context.Background()

	novoNome := "Maria S. Oliveira"
	resp, err := svc.Atualizar(ctx, "loja-a", id, dto.AtualizarPedidoRequest{ClienteNome: &novoNome})
	require.NoError(t, err)
	assert.Equal(t, novoNome, resp.ClienteNome)

	require.NoError(t, svc.Cancelar(ctx, "loja-a", id))
	_, err = svc.Atualizar(ctx, "loja-a", id, dto.AtualizarPedidoRequest{ClienteNome: &novoNome})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))
}

func TestEstatisticas(t *testing.T) {
	svc, _, produtoRepo, _ := buildPedidoSvc()
	p := produtoRepo.seed("Vestido", 100)
	ctx := context.Background()

	primeiro := criarPedidoTeste(t, svc, p, 1) // 100
	criarPedidoTeste(t, svc, p, 3)             // 300
	require.NoError(t, svc.Cancelar(ctx, "loja-a", uuid.MustParse(primeiro.ID)))

	stats, err := svc.Estatisticas(ctx, "loja-a", "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPedidos)
	assert.Equal(t, "400", stats.ValorTotal.String())
	assert.Equal(t, "200", stats.TicketMedio.String())
	assert.Equal(t, 1, stats.PorStatus[model.PedidoNovo])
	assert.Equal(t, 1, stats.PorStatus[model.PedidoCancelado])
	assert.Equal(t, 2, stats.PorOrigem[model.OrigemCatalogo])
}

func TestEstatisticas_Vazio(t *testing.T) {
	svc, _, _, _ := buildPedidoSvc()
	stats, err := svc.Estatisticas(context.Background(), "loja-a", "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPedidos)
	assert.True(t, stats.TicketMedio.IsZero())
}
