package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"nanonerds-quiz-service/internal/app"
	"nanonerds-quiz-service/internal/domain"
	"nanonerds-quiz-service/internal/logger"
)

// WSHandler streams engine events to a websocket and accepts session commands over it.
type WSHandler struct {
	engine   *app.QuizEngine
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(engine *app.QuizEngine, log *logger.Logger) *WSHandler {
	return &WSHandler{
		engine: engine,
		log:    log.With("component", "ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	QuizID string `json:"quizId"`
}

type answerPayload struct {
	QuestionID  string `json:"questionId"`
	OptionIndex *int   `json:"optionIndex"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and pumps events until the client disconnects.
// State changes reach the client only through the engine subscription, so every
// connection sees the same ordered stream.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events, cancel := h.engine.Subscribe(r.Context())
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- eventMessage(ev):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(r, inbound); err != nil {
			select {
			case send <- outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}:
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, inbound inboundMessage) error {
	ctx := r.Context()
	switch inbound.Type {
	case "start":
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.QuizID == "" {
			return errBadPayload
		}
		_, err := h.engine.StartQuiz(ctx, payload.QuizID)
		return err
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.OptionIndex == nil {
			return errBadPayload
		}
		_, err := h.engine.RecordAnswer(ctx, payload.QuestionID, *payload.OptionIndex)
		return err
	case "submit":
		_, err := h.engine.Submit(ctx)
		return err
	case "reset":
		return h.engine.Reset(ctx)
	default:
		return errUnsupported
	}
}

func eventMessage(ev domain.Event) outboundMessage {
	if ev.Type == domain.EventResult {
		return outboundMessage{Type: domain.EventResult, Payload: ev.Result}
	}
	return outboundMessage{Type: domain.EventSession, Payload: ev.Session}
}
