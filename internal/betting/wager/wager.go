package wager

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mugisha/virtubet-platform/internal/betting/slip"
)

// Status de uma aposta comprometida
// Transições válidas: pending -> won | pending -> lost; nunca reverte
type Status string

const (
	StatusPending Status = "pending"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

var (
	ErrEmptySlip    = errors.New("empty slip")
	ErrInvalidStake = errors.New("invalid stake")
)

// Wager é uma aposta imutável: cópia congelada das seleções do slip,
// stake e odd total fixados no commit (mudanças de odds posteriores
// não afetam apostas já feitas)
type Wager struct {
	ID                string           `json:"id"`
	OwnerID           string           `json:"ownerId"`
	Selections        []slip.Selection `json:"selections"`
	StakeCents        int64            `json:"stakeCents"`
	TotalOdds         decimal.Decimal  `json:"totalOdds"`
	PotentialWinCents int64            `json:"potentialWinCents"`
	Status            Status           `json:"status"`
	CreatedAt         time.Time        `json:"createdAt"`
	SettledAt         *time.Time       `json:"settledAt,omitempty"`
	EventIDs          []string         `json:"eventIds"` // índice derivado das seleções
}

// New congela um slip em uma aposta pendente
// Rejeita slip vazio e stake <= 0; o teto (saldo) é validado pelo débito
// na carteira, não aqui
func New(ownerID string, s slip.Slip, now time.Time) (Wager, error) {
	if len(s.Selections) == 0 {
		return Wager{}, ErrEmptySlip
	}
	if s.StakeCents <= 0 {
		return Wager{}, ErrInvalidStake
	}

	selections := make([]slip.Selection, len(s.Selections))
	copy(selections, s.Selections)

	eventIDs := make([]string, 0, len(selections))
	seen := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		if _, ok := seen[sel.EventID]; ok {
			continue
		}
		seen[sel.EventID] = struct{}{}
		eventIDs = append(eventIDs, sel.EventID)
	}

	odds := slip.CombinedOdds(selections)

	return Wager{
		ID:                uuid.NewString(),
		OwnerID:           ownerID,
		Selections:        selections,
		StakeCents:        s.StakeCents,
		TotalOdds:         odds,
		PotentialWinCents: slip.PotentialPayoutCents(s.StakeCents, odds),
		Status:            StatusPending,
		CreatedAt:         now,
		EventIDs:          eventIDs,
	}, nil
}

// Touches indica se a aposta referencia algum dos eventos informados
func (w Wager) Touches(eventIDs map[string]struct{}) bool {
	for _, id := range w.EventIDs {
		if _, ok := eventIDs[id]; ok {
			return true
		}
	}
	return false
}
