package topics

const (
	// Feed virtual
	MatchOffers  = "match_offers"
	MatchResults = "match_results"

	// Apostas
	WagerPlaced  = "wager_placed"
	WagerSettled = "wager_settled"

	// DLQs
	MatchResultsDLQ = "match_results_dlq"
	WagerPlacedDLQ  = "wager_placed_dlq"
)
