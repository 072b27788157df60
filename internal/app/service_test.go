package app_test

import (
	"context"
	"testing"

	"sprint-quiz-service/internal/app"
	"sprint-quiz-service/internal/domain"
	"sprint-quiz-service/internal/infra/memory"
)

func TestRegisterBroadcastsLeaderboard(t *testing.T) {
	service, hub := newTestService(t)

	ch, cancel := hub.Subscribe()
	defer cancel()

	total := service.Register("alice")
	if total != 2 {
		t.Fatalf("expected bank size 2 in registration ack, got %d", total)
	}

	lb := <-ch
	if len(lb.Players) != 1 || lb.Players[0].Name != "alice" || lb.Players[0].Score != 0 {
		t.Fatalf("expected broadcast with alice at 0, got %+v", lb.Players)
	}
}

func TestSubmitAnswerBroadcastsAndScores(t *testing.T) {
	service, hub := newTestService(t)
	service.Register("alice")
	service.Register("bob")

	ch, cancel := hub.Subscribe()
	defer cancel()

	out, err := service.SubmitAnswer("bob", "B", "b")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !out.Correct || out.Score != 1 {
		t.Fatalf("expected bob scoring 1, got %+v", out)
	}

	lb := <-ch
	if len(lb.Players) != 2 || lb.Players[0].Name != "bob" || lb.Players[0].Score != 1 {
		t.Fatalf("expected bob leading broadcast, got %+v", lb.Players)
	}
}

func TestWrongAnswerLeavesScoreUnchanged(t *testing.T) {
	service, _ := newTestService(t)
	service.Register("alice")

	out, err := service.SubmitAnswer("alice", "A", "B")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Correct || out.Score != 0 {
		t.Fatalf("expected wrong answer with score 0, got %+v", out)
	}

	s, ok := service.Lookup("alice")
	if !ok || s.Score != 0 {
		t.Fatalf("expected persisted score 0, got %+v", s)
	}
}

func TestSubmitAnswerUnknownPlayerIgnored(t *testing.T) {
	service, _ := newTestService(t)
	if _, err := service.SubmitAnswer("ghost", "a", "a"); err != domain.ErrUnknownPlayer {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}

func TestStats(t *testing.T) {
	service, _ := newTestService(t)
	service.Register("alice")
	service.Register("bob")
	if _, err := service.SubmitAnswer("alice", "a", "a"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	stats := service.Stats()
	if stats.TotalQuestions != 2 {
		t.Fatalf("expected 2 questions, got %d", stats.TotalQuestions)
	}
	if stats.ActivePlayers != 2 {
		t.Fatalf("expected 2 players, got %d", stats.ActivePlayers)
	}
	if len(stats.Leaderboard) != 2 || stats.Leaderboard[0].Name != "alice" {
		t.Fatalf("expected alice leading, got %+v", stats.Leaderboard)
	}
}

func newTestService(t *testing.T) (*app.GameService, *app.Hub) {
	t.Helper()
	loader := memory.NewStaticLoader(map[string][]domain.Question{
		"default": {
			{Text: "What is 2 + 2?", Choices: []string{"A) 3", "B) 4", "C) 5"}, Answer: "B"},
			{Text: "Pick A", Choices: []string{"A) this one", "B) not this"}, Answer: "A"},
		},
	})
	questions, err := loader.LoadBank(context.Background(), "default")
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}

	hub := app.NewHub()
	service := app.NewGameService(app.NewQuestionStore(questions), app.NewSessionRegistry(), hub)
	return service, hub
}
