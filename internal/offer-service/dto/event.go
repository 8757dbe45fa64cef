package dto

// Event resume uma partida virtual da rodada corrente
type Event struct {
	EventID  string `json:"eventId"`
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	Round    int    `json:"round"`
}

// Result resume o placar final de uma partida já jogada
type Result struct {
	EventID       string `json:"eventId"`
	HomeTeam      string `json:"homeTeam"`
	AwayTeam      string `json:"awayTeam"`
	HomeScore     int    `json:"homeScore"`
	AwayScore     int    `json:"awayScore"`
	HalfTimeScore string `json:"halfTimeScore"`
	FullTimeScore string `json:"fullTimeScore"`
	Round         int    `json:"round"`
}
