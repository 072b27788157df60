package app

import (
	"sort"
	"strings"
	"sync"
	"time"

	"sprint-quiz-service/internal/domain"
)

// session is the registry-internal record for one player.
type session struct {
	name        string
	score       int
	roundStart  time.Time
	roundActive bool
	seq         uint64 // registration order, used as the leaderboard tie-break
}

// SessionRegistry is the single source of truth for player scores and round
// timing. Every operation runs under one mutex so that "check elapsed time,
// then increment score" is atomic with respect to concurrent submissions.
//
// Sessions are never deleted: players stay on the leaderboard for the process
// lifetime, including after their connection drops. Re-registering a name
// overwrites the existing session (last write wins; the accepted race when two
// connections register the same name).
type SessionRegistry struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[string]*session
	nextSeq  uint64
}

func NewSessionRegistry() *SessionRegistry {
	return NewSessionRegistryWithClock(time.Now)
}

// NewSessionRegistryWithClock allows deterministic timestamps in tests.
func NewSessionRegistryWithClock(now func() time.Time) *SessionRegistry {
	return &SessionRegistry{
		now:      now,
		sessions: make(map[string]*session),
	}
}

// Register inserts or overwrites the session for name with a zero score and a
// fresh active round.
func (r *SessionRegistry) Register(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	r.sessions[name] = &session{
		name:        name,
		roundStart:  r.now(),
		roundActive: true,
		seq:         r.nextSeq,
	}
}

// StartRound resets the session to a fresh 60-second round and reports whether
// the session existed.
func (r *SessionRegistry) StartRound(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[name]
	if !ok {
		return false
	}
	s.score = 0
	s.roundStart = r.now()
	s.roundActive = true
	return true
}

// SubmitAnswer scores one answer for name. Expiry is lazy: the round is only
// marked over when a submission arrives after more than RoundDuration has
// elapsed (strictly greater, so a submission at exactly 60.0s still scores).
// Labels are compared case-insensitively; a correct answer adds exactly one
// point.
func (r *SessionRegistry) SubmitAnswer(name, chosen, correct string) (domain.AnswerOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[name]
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrUnknownPlayer
	}

	elapsed := r.now().Sub(s.roundStart)
	if elapsed > domain.RoundDuration {
		s.roundActive = false
		return domain.AnswerOutcome{
			Expired: true,
			Elapsed: elapsed.Seconds(),
			Score:   s.score,
		}, nil
	}

	correctAnswer := strings.EqualFold(chosen, correct)
	if correctAnswer {
		s.score++
	}
	timeLeft := (domain.RoundDuration - elapsed).Seconds()
	if timeLeft < 0 {
		timeLeft = 0
	}
	return domain.AnswerOutcome{
		Correct:  correctAnswer,
		Score:    s.score,
		TimeLeft: timeLeft,
	}, nil
}

// SnapshotTop returns at most n players ordered by descending score. Ties are
// broken by registration order, earlier registrants first, so the ordering is
// stable and deterministic for a fixed snapshot.
func (r *SessionRegistry) SnapshotTop(n int) []domain.LeaderboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	ranked := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].seq < ranked[j].seq
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for _, s := range ranked {
		entries = append(entries, domain.LeaderboardEntry{Name: s.name, Score: s.score})
	}
	return entries
}

// Lookup returns a copy of the session for name.
func (r *SessionRegistry) Lookup(name string) (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[name]
	if !ok {
		return domain.Session{}, false
	}
	return domain.Session{
		Name:        s.name,
		Score:       s.score,
		RoundStart:  s.roundStart,
		RoundActive: s.roundActive,
	}, true
}

// Count reports how many players have ever registered this process lifetime.
func (r *SessionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
