package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"sprint-quiz-service/internal/app"
	"sprint-quiz-service/internal/domain"
)

// WSHandler upgrades HTTP requests to websockets and runs the per-connection
// protocol loop.
type WSHandler struct {
	service  *app.GameService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Action  string `json:"action"`
	Name    string `json:"name"`
	Answer  string `json:"answer"`
	Correct string `json:"correct"`
}

type registeredMessage struct {
	Status         string `json:"status"`
	Name           string `json:"name"`
	TotalQuestions int    `json:"total_questions"`
}

type gameStartedMessage struct {
	Status string `json:"status"`
}

type questionMessage struct {
	Type string          `json:"type"`
	Q    domain.Question `json:"q"`
}

type answerResultMessage struct {
	Type     string  `json:"type"`
	Result   string  `json:"result"`
	Score    int     `json:"score"`
	TimeLeft float64 `json:"time_left"`
}

type gameOverMessage struct {
	Type       string `json:"type"`
	FinalScore int    `json:"final_score"`
	Time       int    `json:"time"`
}

type leaderboardMessage struct {
	Type    string                    `json:"type"`
	Players []domain.LeaderboardEntry `json:"players"`
}

type errorMessage struct {
	Error string `json:"error"`
}

// ServeWS runs one connection: a writer goroutine owns all websocket writes,
// a pump goroutine forwards leaderboard broadcasts into the writer, and the
// read loop dispatches client actions. Malformed frames and unknown actions
// are ignored; only a transport error ends the loop, which unsubscribes the
// connection. The player's session stays behind on the leaderboard.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	log := h.log.With().Str("remote", conn.RemoteAddr().String()).Logger()

	updates, unsubscribe := h.service.Subscribe()
	defer unsubscribe()

	send := make(chan any, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Msg("ws write error")
				failed = true
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- leaderboardMessage{Type: "leaderboard", Players: update.Players}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	var player string

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var inbound inboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			continue
		}

		switch inbound.Action {
		case "register":
			player = inbound.Name
			total := h.service.Register(player)
			send <- registeredMessage{Status: "registered", Name: player, TotalQuestions: total}
			log.Info().Str("player", player).Msg("player registered")

		case "start_game":
			if player == "" {
				continue
			}
			h.service.StartRound(player)
			send <- gameStartedMessage{Status: "game_started"}

		case "get_question":
			q, err := h.service.PickQuestion()
			if err != nil {
				send <- errorMessage{Error: "No questions available"}
				continue
			}
			send <- questionMessage{Type: "question", Q: q}

		case "answer":
			if player == "" {
				continue
			}
			outcome, err := h.service.SubmitAnswer(player, inbound.Answer, inbound.Correct)
			if err != nil {
				// unknown player: ignored, no error surfaced
				continue
			}
			if outcome.Expired {
				send <- gameOverMessage{
					Type:       "game_over",
					FinalScore: outcome.Score,
					Time:       int(domain.RoundDuration.Seconds()),
				}
				continue
			}
			result := "wrong"
			if outcome.Correct {
				result = "correct"
			}
			send <- answerResultMessage{
				Type:     "answer_result",
				Result:   result,
				Score:    outcome.Score,
				TimeLeft: outcome.TimeLeft,
			}

		case "get_leaderboard":
			h.service.BroadcastLeaderboard()

		default:
			// unrecognized action: not an error, connection stays open
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
	log.Info().Str("player", player).Msg("connection closed")
}
