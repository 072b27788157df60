package app

import "sprint-quiz-service/internal/domain"

// leaderboardSize caps broadcast and stats snapshots at the top ten players.
const leaderboardSize = 10

// GameService wires the question store, session registry and broadcast hub
// into the game's use cases. Connection handlers call it; it decides when the
// leaderboard fans out.
type GameService struct {
	store    *QuestionStore
	registry *SessionRegistry
	hub      *Hub
}

func NewGameService(store *QuestionStore, registry *SessionRegistry, hub *Hub) *GameService {
	return &GameService{store: store, registry: registry, hub: hub}
}

// Register creates (or overwrites) the session for name and fans out the
// updated leaderboard. Returns the bank size for the registration ack.
func (s *GameService) Register(name string) int {
	s.registry.Register(name)
	s.BroadcastLeaderboard()
	return s.store.Count()
}

// StartRound resets name's round; reports whether the session existed.
func (s *GameService) StartRound(name string) bool {
	return s.registry.StartRound(name)
}

// PickQuestion draws a random question from the bank.
func (s *GameService) PickQuestion() (domain.Question, error) {
	return s.store.PickRandom()
}

// SubmitAnswer scores one answer and fans out the leaderboard on every
// outcome, scored or expired.
func (s *GameService) SubmitAnswer(name, chosen, correct string) (domain.AnswerOutcome, error) {
	outcome, err := s.registry.SubmitAnswer(name, chosen, correct)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	s.BroadcastLeaderboard()
	return outcome, nil
}

// Subscribe attaches a connection to leaderboard broadcasts.
func (s *GameService) Subscribe() (<-chan domain.Leaderboard, func()) {
	return s.hub.Subscribe()
}

// BroadcastLeaderboard pushes a fresh top-10 snapshot to every connection.
func (s *GameService) BroadcastLeaderboard() {
	s.hub.Publish(domain.Leaderboard{Players: s.registry.SnapshotTop(leaderboardSize)})
}

// Lookup exposes a session copy, mainly for tests and diagnostics.
func (s *GameService) Lookup(name string) (domain.Session, bool) {
	return s.registry.Lookup(name)
}

// Stats builds the read model served on the HTTP surface.
func (s *GameService) Stats() domain.Stats {
	return domain.Stats{
		TotalQuestions: s.store.Count(),
		ActivePlayers:  s.registry.Count(),
		Leaderboard:    s.registry.SnapshotTop(leaderboardSize),
	}
}
