package domain

import "time"

// RoundDuration is how long a scored round lasts. Expiry fires only once
// elapsed time strictly exceeds it.
const RoundDuration = 60 * time.Second

// Question is one multiple-choice question from the bank. Choices keep their
// label prefix ("A) ...") verbatim; Answer is the correct label (A-E).
type Question struct {
	Text    string   `json:"question"`
	Choices []string `json:"choices"`
	Answer  string   `json:"answer"`
}

// Session is the per-player record, keyed by name. It outlives the websocket
// connection that created it; scores stay on the leaderboard after disconnect.
type Session struct {
	Name        string
	Score       int
	RoundStart  time.Time
	RoundActive bool
}

// LeaderboardEntry is a snapshot-friendly view of one player.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Leaderboard is an ordered top-N scoreboard snapshot.
type Leaderboard struct {
	Players []LeaderboardEntry `json:"players"`
}

// AnswerOutcome is the result of submitting an answer: either the round had
// already expired when the check ran, or the answer was scored.
type AnswerOutcome struct {
	Expired bool
	// Elapsed is the round time consumed at the moment of the check, in seconds.
	Elapsed float64
	Correct bool
	Score   int
	// TimeLeft is the remaining round time in seconds, clamped at zero.
	TimeLeft float64
}

// Stats is the read model for the HTTP stats endpoint.
type Stats struct {
	TotalQuestions int                `json:"total_questions"`
	ActivePlayers  int                `json:"active_players"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
}
