package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bhttp "github.com/mugisha/virtubet-platform/internal/betslip-service/http"
	"github.com/mugisha/virtubet-platform/internal/betting/slip"
	"github.com/mugisha/virtubet-platform/internal/betting/wager"
	"github.com/mugisha/virtubet-platform/internal/walletclient"
	"github.com/mugisha/virtubet-platform/pkg/contracts/events"
)

type memSlipStore struct {
	slips map[string]slip.Slip
}

func newMemSlipStore() *memSlipStore { return &memSlipStore{slips: map[string]slip.Slip{}} }

func (m *memSlipStore) Get(_ context.Context, userID string) (slip.Slip, error) {
	return m.slips[userID], nil
}

func (m *memSlipStore) Save(_ context.Context, userID string, s slip.Slip) error {
	m.slips[userID] = s
	return nil
}

func (m *memSlipStore) Clear(_ context.Context, userID string) error {
	delete(m.slips, userID)
	return nil
}

type memWagerRepo struct {
	created    []wager.Wager
	failCreate bool
}

func (m *memWagerRepo) Create(_ context.Context, w wager.Wager) error {
	if m.failCreate {
		return errors.New("insert failed")
	}
	m.created = append(m.created, w)
	return nil
}

func (m *memWagerRepo) GetByID(_ context.Context, id string) (wager.Wager, error) {
	for _, w := range m.created {
		if w.ID == id {
			return w, nil
		}
	}
	return wager.Wager{}, errors.New("not found")
}

func (m *memWagerRepo) ListByOwner(_ context.Context, ownerID, status string) ([]wager.Wager, error) {
	var out []wager.Wager
	for _, w := range m.created {
		if w.OwnerID == ownerID && (status == "" || string(w.Status) == status) {
			out = append(out, w)
		}
	}
	return out, nil
}

type memPublisher struct{ published []events.WagerPlaced }

func (m *memPublisher) PublishWagerPlaced(_ context.Context, e events.WagerPlaced) error {
	m.published = append(m.published, e)
	return nil
}

type walletBehavior struct {
	insufficient bool
	debits       int
	refunds      int
}

func newWalletServer(t *testing.T, b *walletBehavior) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wallet/debit":
			b.debits++
			if b.insufficient {
				http.Error(w, "insufficient funds", http.StatusConflict)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"balance_cents": 90000})
		case "/wallet/refund":
			b.refunds++
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
		}
	}))
}

type fixture struct {
	slips  *memSlipStore
	repo   *memWagerRepo
	pub    *memPublisher
	wallet *walletBehavior
	srv    *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		slips:  newMemSlipStore(),
		repo:   &memWagerRepo{},
		pub:    &memPublisher{},
		wallet: &walletBehavior{},
	}
	ws := newWalletServer(t, f.wallet)
	t.Cleanup(ws.Close)

	api := bhttp.NewServer(zap.NewNop(), f.slips, f.repo, walletclient.New(ws.URL), f.pub)
	f.srv = httptest.NewServer(api.Router())
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	res, err := http.Post(f.srv.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return res
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

func applyBody(eventID, market, outcome, odds string) map[string]any {
	return map[string]any{
		"userId":   "u1",
		"eventId":  eventID,
		"homeTeam": "V-Lyon",
		"awayTeam": "V-Marseille",
		"market":   market,
		"outcome":  outcome,
		"odds":     odds,
	}
}

func decodeSlip(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestApplySelectionToggleAndReplace(t *testing.T) {
	f := newFixture(t)

	// primeira seleção
	res := f.postJSON(t, "/v1/slip/selections", applyBody("m1", "Full Time Result", "1", "1.85"))
	require.Equal(t, http.StatusOK, res.StatusCode)
	out := decodeSlip(t, res)
	assert.Len(t, out["selections"], 1)

	// outra odd da mesma partida substitui
	res = f.postJSON(t, "/v1/slip/selections", applyBody("m1", "Full Time Result", "X", "3.20"))
	out = decodeSlip(t, res)
	require.Len(t, out["selections"], 1)
	sel := out["selections"].([]any)[0].(map[string]any)
	assert.Equal(t, "X", sel["outcome"])

	// clique repetido remove (toggle off)
	res = f.postJSON(t, "/v1/slip/selections", applyBody("m1", "Full Time Result", "X", "3.20"))
	out = decodeSlip(t, res)
	assert.Len(t, out["selections"], 0)
}

func TestSlipResponseCarriesDerivedValues(t *testing.T) {
	f := newFixture(t)

	f.postJSON(t, "/v1/slip/selections", applyBody("m1", "Full Time Result", "1", "1.85")).Body.Close()
	f.postJSON(t, "/v1/slip/selections", applyBody("m2", "BTTS Full Time", "Yes", "1.90")).Body.Close()
	res := f.do(t, http.MethodPut, "/v1/slip/stake", map[string]any{"userId": "u1", "stake_cents": 10000})
	out := decodeSlip(t, res)

	assert.Equal(t, "3.52", out["combinedOdds"]) // 1.85*1.90=3.515, exibido com 2 casas
	assert.EqualValues(t, 35150, out["potentialPayoutCents"])
}

func TestApplySelectionRejectsBadOdds(t *testing.T) {
	f := newFixture(t)
	res := f.postJSON(t, "/v1/slip/selections", applyBody("m1", "Full Time Result", "1", "zero"))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()
}

func TestCommitHappyPath(t *testing.T) {
	f := newFixture(t)

	f.postJSON(t, "/v1/slip/selections", applyBody("m1", "Full Time Result", "1", "1.85")).Body.Close()
	f.do(t, http.MethodPut, "/v1/slip/stake", map[string]any{"userId": "u1", "stake_cents": 10000}).Body.Close()

	res := f.postJSON(t, "/v1/wagers", map[string]any{"userId": "u1"})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	defer res.Body.Close()

	var w wager.Wager
	require.NoError(t, json.NewDecoder(res.Body).Decode(&w))
	assert.Equal(t, wager.StatusPending, w.Status)
	assert.EqualValues(t, 10000, w.StakeCents)
	assert.EqualValues(t, 18500, w.PotentialWinCents)

	require.Len(t, f.repo.created, 1)
	assert.Equal(t, 1, f.wallet.debits)
	assert.Zero(t, f.wallet.refunds)
	require.Len(t, f.pub.published, 1)
	assert.Equal(t, w.ID, f.pub.published[0].WagerID)
	assert.Equal(t, w.ID, f.pub.published[0].DebitRef)

	// o rascunho é limpo após o commit
	slipRes, err := http.Get(f.srv.URL + "/v1/slip?userId=u1")
	require.NoError(t, err)
	out := decodeSlip(t, slipRes)
	assert.Len(t, out["selections"], 0)
}

func TestCommitEmptySlip(t *testing.T) {
	f := newFixture(t)
	res := f.postJSON(t, "/v1/wagers", map[string]any{"userId": "u1"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	res.Body.Close()
	assert.Zero(t, f.wallet.debits)
}

func TestCommitWithoutStake(t *testing.T) {
	f := newFixture(t)
	f.postJSON(t, "/v1/slip/selections", applyBody("m1", "Full Time Result", "1", "1.85")).Body.Close()

	res := f.postJSON(t, "/v1/wagers", map[string]any{"userId": "u1"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	res.Body.Close()
	assert.Zero(t, f.wallet.debits)
}

func TestCommitInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	f.wallet.insufficient = true

	f.postJSON(t, "/v1/slip/selections", applyBody("m1", "Full Time Result", "1", "1.85")).Body.Close()
	f.do(t, http.MethodPut, "/v1/slip/stake", map[string]any{"userId": "u1", "stake_cents": 10000}).Body.Close()

	res := f.postJSON(t, "/v1/wagers", map[string]any{"userId": "u1"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	res.Body.Close()

	// slip preservado para o usuário ajustar o stake
	assert.Len(t, f.slips.slips["u1"].Selections, 1)
	assert.Empty(t, f.repo.created)
}

func TestCommitRefundsWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	f.repo.failCreate = true

	f.postJSON(t, "/v1/slip/selections", applyBody("m1", "Full Time Result", "1", "1.85")).Body.Close()
	f.do(t, http.MethodPut, "/v1/slip/stake", map[string]any{"userId": "u1", "stake_cents": 10000}).Body.Close()

	res := f.postJSON(t, "/v1/wagers", map[string]any{"userId": "u1"})
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	res.Body.Close()

	assert.Equal(t, 1, f.wallet.debits)
	assert.Equal(t, 1, f.wallet.refunds)
	assert.Empty(t, f.pub.published)
}

func TestListWagersRejectsBogusStatus(t *testing.T) {
	f := newFixture(t)
	res, err := http.Get(f.srv.URL + "/v1/wagers?userId=u1&status=refunded")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()
}
