package dto

import "github.com/mugisha/virtubet-platform/internal/betting/slip"

// SlipResponse devolve o rascunho mais os valores derivados,
// recalculados a cada leitura (nunca armazenados)
type SlipResponse struct {
	Selections           []slip.Selection `json:"selections"`
	StakeCents           int64            `json:"stakeCents"`
	IsOpen               bool             `json:"isOpen"`
	CombinedOdds         string           `json:"combinedOdds"`
	PotentialPayoutCents int64            `json:"potentialPayoutCents"`
}

func NewSlipResponse(s slip.Slip) SlipResponse {
	selections := s.Selections
	if selections == nil {
		selections = []slip.Selection{}
	}
	return SlipResponse{
		Selections:           selections,
		StakeCents:           s.StakeCents,
		IsOpen:               s.IsOpen,
		CombinedOdds:         s.CombinedOdds().StringFixed(2),
		PotentialPayoutCents: s.PotentialPayoutCents(),
	}
}
