package events

import "time"

// Status possíveis de um resultado de partida
// Resultados "completed" nunca são retratados pelo feed
const (
	ResultInProgress = "in_progress"
	ResultCompleted  = "completed"
)

// Resultado de uma partida virtual, publicado no tópico "match_results"
// HalfTimeScore e FullTimeScore usam o formato "h:a" (ex: "1:0")
type MatchResult struct {
	EventID       string    `json:"event_id"`
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`
	HomeScore     int       `json:"home_score"`
	AwayScore     int       `json:"away_score"`
	HalfTimeScore string    `json:"half_time_score"`
	FullTimeScore string    `json:"full_time_score"`
	Status        string    `json:"status"` // in_progress | completed
	Round         int       `json:"round"`
	Ts            time.Time `json:"ts"`
}

// Final indica se o resultado já pode ser usado para liquidação
func (r MatchResult) Final() bool { return r.Status == ResultCompleted }
