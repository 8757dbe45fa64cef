package dto

type ApplySelectionRequest struct {
	UserID   string `json:"userId"`
	EventID  string `json:"eventId"`
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	Market   string `json:"market"`  // ex: "Full Time Result"
	Outcome  string `json:"outcome"` // ex: "1", "Over 2.5", "2:1"
	Odds     string `json:"odds"`    // odd que o cliente viu, ex: "1.85"
}

type SetStakeRequest struct {
	UserID     string `json:"userId"`
	StakeCents int64  `json:"stake_cents"`
}

type SetOpenRequest struct {
	UserID string `json:"userId"`
	IsOpen bool   `json:"isOpen"`
}

type CommitRequest struct {
	UserID string `json:"userId"`
}
