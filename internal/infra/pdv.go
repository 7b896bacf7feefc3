package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/juliohebert/loja-sub002/internal/dto"
)

// PDVClient hands converted catalog orders over to the point-of-sale
// collaborator. The PDV runs as a separate service; this client only marshals
// the conversion payload across the boundary — it never processes payment or
// decrements stock itself.
//
// The PDV deduplicates conversions by pedido_id, so a retried hand-off for an
// already-accepted order answers 409 and is treated as success here. That is
// what makes the novo→processando commit safe to repeat after a lost race.
type PDVClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewPDVClient(baseURL string, cb *CircuitBreaker) *PDVClient {
	return &PDVClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cb:         cb,
	}
}

// Converter posts the conversion request. A nil error means the PDV accepted
// the hand-off (first delivery or idempotent replay).
func (c *PDVClient) Converter(ctx context.Context, tenantID string, req dto.ConversaoPDVRequest) error {
	return c.cb.Execute(func() error {
		return c.converterOnce(ctx, tenantID, req)
	})
}

func (c *PDVClient) converterOnce(ctx context.Context, tenantID string, payload dto.ConversaoPDVRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("pdv: marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/conversoes", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("pdv: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Tenant-ID", tenantID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("pdv: collaborator unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusConflict:
		// Already converted — idempotent replay.
		return nil
	default:
		return fmt.Errorf("pdv: collaborator returned %d", resp.StatusCode)
	}
}
