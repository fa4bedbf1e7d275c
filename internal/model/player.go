package model

import (
	"encoding/json"
	"time"
)

// Score is written at most once, when the player finishes.
type Score struct {
	Time       float64 `json:"time"`
	WrongCount int     `json:"wrongCount"`
}

// Player is a participant in a room. The connection id doubles as the
// player id; a reconnecting player is a brand-new entry.
type Player struct {
	ConnID   string  `json:"id"`
	Username string  `json:"username"`
	Progress float64 `json:"progress"`
	Score    *Score  `json:"score"`

	// Solved holds opaque problem-result records and is replaced
	// wholesale on every progress update (last write wins).
	Solved []json.RawMessage `json:"solved"`

	JoinedAt time.Time `json:"joinedAt"`
}

// PlayerView is the per-player slice of a room snapshot.
type PlayerView struct {
	ID       string            `json:"id"`
	Username string            `json:"username"`
	Score    *Score            `json:"score"`
	Progress float64           `json:"progress"`
	Solved   []json.RawMessage `json:"solved"`
}

// View copies the player into its snapshot form.
func (p *Player) View() PlayerView {
	solved := p.Solved
	if solved == nil {
		solved = []json.RawMessage{}
	}
	return PlayerView{
		ID:       p.ConnID,
		Username: p.Username,
		Score:    p.Score,
		Progress: p.Progress,
		Solved:   solved,
	}
}
