package walletclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugisha/virtubet-platform/internal/walletclient"
)

func TestDebitReturnsNewBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wallet/debit", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["userId"])
		assert.EqualValues(t, 10000, body["amount_cents"])
		assert.Equal(t, "wager-123", body["external_ref"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"userId": "u1", "balance_cents": 40000})
	}))
	defer srv.Close()

	c := walletclient.New(srv.URL)
	bal, err := c.Debit(context.Background(), "u1", 10000, "wager-123")
	require.NoError(t, err)
	assert.EqualValues(t, 40000, bal)
}

func TestDebitInsufficientFunds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient funds", http.StatusConflict)
	}))
	defer srv.Close()

	c := walletclient.New(srv.URL)
	_, err := c.Debit(context.Background(), "u1", 10000, "wager-123")
	require.ErrorIs(t, err, walletclient.ErrInsufficientFunds)
}

func TestCreditPropagatesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := walletclient.New(srv.URL)
	err := c.Credit(context.Background(), "u1", 5000, "settle-win:abc")
	assert.Error(t, err)
}

func TestRefundHitsRefundEndpoint(t *testing.T) {
	var gotPath, gotRef string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotRef, _ = body["external_ref"].(string)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := walletclient.New(srv.URL)
	require.NoError(t, c.Refund(context.Background(), "u1", "wager-123"))
	assert.Equal(t, "/wallet/refund", gotPath)
	assert.Equal(t, "wager-123", gotRef)
}

func TestBalanceDecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("userId"))
		_ = json.NewEncoder(w).Encode(map[string]any{"userId": "u1", "balance_cents": 123456})
	}))
	defer srv.Close()

	c := walletclient.New(srv.URL)
	bal, err := c.Balance(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 123456, bal)
}
