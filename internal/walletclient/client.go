package walletclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrInsufficientFunds sinaliza débito recusado por saldo insuficiente
var ErrInsufficientFunds = errors.New("insufficient funds")

// Client é o cliente HTTP do wallet-service, usado pelo betslip-service
// (débito do stake no commit) e pelo settlement-worker (crédito de prêmios)
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

type balancePayload struct {
	UserID       string `json:"userId"`
	BalanceCents int64  `json:"balance_cents"`
}

type adjustPayload struct {
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amount_cents,omitempty"`
	ExternalRef string `json:"external_ref"`
}

// Balance retorna o saldo atual (criando a carteira se necessário)
func (c *Client) Balance(ctx context.Context, userID string) (int64, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/wallet?userId="+userID, nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return 0, fmt.Errorf("wallet balance http %d", res.StatusCode)
	}
	var out balancePayload
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.BalanceCents, nil
}

// Debit desconta o stake; idempotente por externalRef no lado do wallet
func (c *Client) Debit(ctx context.Context, userID string, cents int64, externalRef string) (int64, error) {
	res, err := c.post(ctx, "/wallet/debit", adjustPayload{UserID: userID, AmountCents: cents, ExternalRef: externalRef})
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusConflict {
		return 0, ErrInsufficientFunds
	}
	if res.StatusCode >= 300 {
		return 0, fmt.Errorf("wallet debit http %d", res.StatusCode)
	}
	var out balancePayload
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.BalanceCents, nil
}

// Credit aplica o prêmio de uma aposta ganha; idempotente por externalRef,
// então redelivery do mesmo lote de resultados nunca credita duas vezes
func (c *Client) Credit(ctx context.Context, userID string, cents int64, externalRef string) error {
	res, err := c.post(ctx, "/wallet/credit", adjustPayload{UserID: userID, AmountCents: cents, ExternalRef: externalRef})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("wallet credit http %d", res.StatusCode)
	}
	return nil
}

// Refund estorna um débito anterior (compensação de commit que falhou)
func (c *Client) Refund(ctx context.Context, userID, externalRef string) error {
	res, err := c.post(ctx, "/wallet/refund", adjustPayload{UserID: userID, ExternalRef: externalRef})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("wallet refund http %d", res.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.HTTP.Do(req)
}
