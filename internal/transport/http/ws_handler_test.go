package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"sprint-quiz-service/internal/app"
	"sprint-quiz-service/internal/domain"
)

func TestRegisterStartQuestionAnswerFlow(t *testing.T) {
	server := newTestServer(t, sampleQuestions())
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	writeAction(t, conn, map[string]any{"action": "register", "name": "Alice"})
	reg := readUntil(t, conn, func(m map[string]any) bool { return m["status"] == "registered" })
	if reg["name"] != "Alice" {
		t.Fatalf("expected registration ack for Alice, got %+v", reg)
	}
	if int(reg["total_questions"].(float64)) != 2 {
		t.Fatalf("expected 2 total questions, got %+v", reg)
	}

	writeAction(t, conn, map[string]any{"action": "start_game"})
	readUntil(t, conn, func(m map[string]any) bool { return m["status"] == "game_started" })

	writeAction(t, conn, map[string]any{"action": "get_question"})
	q := readUntil(t, conn, func(m map[string]any) bool { return m["type"] == "question" })
	payload, ok := q["q"].(map[string]any)
	if !ok || payload["question"] == "" {
		t.Fatalf("expected question payload, got %+v", q)
	}

	// Wrong answer: client claims B is correct but answers A.
	writeAction(t, conn, map[string]any{"action": "answer", "answer": "A", "correct": "B"})
	res := readUntil(t, conn, func(m map[string]any) bool { return m["type"] == "answer_result" })
	if res["result"] != "wrong" {
		t.Fatalf("expected wrong result, got %+v", res)
	}
	if int(res["score"].(float64)) != 0 {
		t.Fatalf("expected score unchanged at 0, got %+v", res)
	}
}

func TestLeaderboardOrderingAcrossConnections(t *testing.T) {
	server := newTestServer(t, sampleQuestions())
	defer server.Close()

	alice := dial(t, server)
	defer alice.Close()
	bob := dial(t, server)
	defer bob.Close()

	writeAction(t, alice, map[string]any{"action": "register", "name": "Alice"})
	readUntil(t, alice, func(m map[string]any) bool { return m["status"] == "registered" })
	writeAction(t, bob, map[string]any{"action": "register", "name": "Bob"})
	readUntil(t, bob, func(m map[string]any) bool { return m["status"] == "registered" })

	for i := 0; i < 3; i++ {
		writeAction(t, alice, map[string]any{"action": "answer", "answer": "B", "correct": "B"})
		readUntil(t, alice, func(m map[string]any) bool { return m["type"] == "answer_result" })
	}
	writeAction(t, bob, map[string]any{"action": "answer", "answer": "A", "correct": "A"})
	readUntil(t, bob, func(m map[string]any) bool { return m["type"] == "answer_result" })

	writeAction(t, bob, map[string]any{"action": "get_leaderboard"})
	lb := readUntil(t, bob, func(m map[string]any) bool {
		players, ok := m["players"].([]any)
		if m["type"] != "leaderboard" || !ok || len(players) != 2 {
			return false
		}
		first := players[0].(map[string]any)
		return int(first["score"].(float64)) == 3
	})

	players := lb["players"].([]any)
	first := players[0].(map[string]any)
	second := players[1].(map[string]any)
	if first["name"] != "Alice" || int(first["score"].(float64)) != 3 {
		t.Fatalf("expected Alice leading with 3, got %+v", first)
	}
	if second["name"] != "Bob" || int(second["score"].(float64)) != 1 {
		t.Fatalf("expected Bob with 1, got %+v", second)
	}
}

func TestDisconnectedPlayerStaysOnLeaderboard(t *testing.T) {
	server := newTestServer(t, sampleQuestions())
	defer server.Close()

	ghost := dial(t, server)
	writeAction(t, ghost, map[string]any{"action": "register", "name": "Ghost"})
	readUntil(t, ghost, func(m map[string]any) bool { return m["status"] == "registered" })
	ghost.Close()

	watcher := dial(t, server)
	defer watcher.Close()
	writeAction(t, watcher, map[string]any{"action": "register", "name": "Watcher"})
	readUntil(t, watcher, func(m map[string]any) bool { return m["status"] == "registered" })

	writeAction(t, watcher, map[string]any{"action": "get_leaderboard"})
	readUntil(t, watcher, func(m map[string]any) bool {
		if m["type"] != "leaderboard" {
			return false
		}
		players, _ := m["players"].([]any)
		for _, p := range players {
			if p.(map[string]any)["name"] == "Ghost" {
				return true
			}
		}
		return false
	})
}

func TestUnknownActionAndMalformedFramesIgnored(t *testing.T) {
	server := newTestServer(t, sampleQuestions())
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	writeAction(t, conn, map[string]any{"action": "dance"})
	// Answering before registering is silently ignored.
	writeAction(t, conn, map[string]any{"action": "answer", "answer": "A", "correct": "A"})

	// The connection must still work afterwards.
	writeAction(t, conn, map[string]any{"action": "register", "name": "Late"})
	readUntil(t, conn, func(m map[string]any) bool { return m["status"] == "registered" })
}

func TestEmptyBankSurfacesError(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	writeAction(t, conn, map[string]any{"action": "get_question"})
	msg := readUntil(t, conn, func(m map[string]any) bool { _, ok := m["error"]; return ok })
	if msg["error"] != "No questions available" {
		t.Fatalf("unexpected error payload: %+v", msg)
	}
}

func newTestServer(t *testing.T, questions []domain.Question) *httptest.Server {
	t.Helper()
	hub := app.NewHub()
	service := app.NewGameService(app.NewQuestionStore(questions), app.NewSessionRegistry(), hub)
	logger := zerolog.Nop()
	router := NewRouter(service, NewWSHandler(service, logger), logger)
	return httptest.NewServer(router)
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func writeAction(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg, err)
	}
}

// readUntil reads frames until one matches, skipping interleaved leaderboard
// broadcasts and stale snapshots.
func readUntil(t *testing.T, conn *websocket.Conn, match func(map[string]any) bool) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for i := 0; i < 50; i++ {
		_ = conn.SetReadDeadline(deadline)
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
	t.Fatalf("no matching frame within 50 reads")
	return nil
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Text: "What is 2 + 2?", Choices: []string{"A) 3", "B) 4", "C) 5"}, Answer: "B"},
		{Text: "Pick A", Choices: []string{"A) this one", "B) not this"}, Answer: "A"},
	}
}
