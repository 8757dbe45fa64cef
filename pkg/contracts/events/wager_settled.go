package events

import "time"

// Evento emitido pelo settlement-worker após liquidar uma aposta.
type WagerSettled struct {
	WagerID     string    `json:"wagerId"`
	OwnerID     string    `json:"ownerId"`
	Status      string    `json:"status"` // "won" | "lost"
	PayoutCents int64     `json:"payout_cents,omitempty"`
	Ts          time.Time `json:"ts"`
}
