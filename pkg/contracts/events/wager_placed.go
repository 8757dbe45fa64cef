package events

type WagerPlaced struct {
	WagerID           string   `json:"wager_id"`
	OwnerID           string   `json:"owner_id"`
	EventIDs          []string `json:"event_ids"`
	Selections        int      `json:"selections"`
	StakeCents        int64    `json:"stake_cents"`
	TotalOdds         string   `json:"total_odds"`
	PotentialWinCents int64    `json:"potential_win_cents"`
	DebitRef          string   `json:"debit_ref"` // external_ref usado no débito da carteira (wagerID)
	TsUnixMs          int64    `json:"ts_unix_ms"`
}
