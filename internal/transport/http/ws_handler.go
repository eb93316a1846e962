package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

const closeGrace = time.Second

// SessionHandler runs one timed quiz session per websocket connection.
type SessionHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewSessionHandler(service *app.QuizService) *SessionHandler {
	return &SessionHandler{
		service:  service,
		upgrader: newUpgrader(),
	}
}

func newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
	QuizName  string `json:"quizName"`
}

type resultPayload struct {
	domain.Result
	Summary string `json:"summary"`
}

// wsPresenter forwards session render calls to the connection writer.
type wsPresenter struct {
	send chan<- outboundMessage[any]
	stop <-chan struct{}
}

func (p *wsPresenter) emit(msgType string, payload any) {
	select {
	case p.send <- outboundMessage[any]{Type: msgType, Payload: payload}:
	case <-p.stop:
	}
}

func (p *wsPresenter) OnStart(id, quizName string) {
	p.emit("session", sessionPayload{SessionID: id, QuizName: quizName})
}

func (p *wsPresenter) OnQuestion(view domain.QuestionView) {
	p.emit("question", view)
}

func (p *wsPresenter) OnTick(readout domain.TickReadout) {
	p.emit("tick", readout)
}

func (p *wsPresenter) OnResult(result domain.Result) {
	if result.Outcome == domain.OutcomeTimedOut {
		p.emit("timeUp", errorPayload{Message: "Time's up!"})
	}
	p.emit("result", resultPayload{Result: result, Summary: app.RenderResult(result)})
}

// ServeWS upgrades the request, starts a session over the quiz named by the "quiz" query
// parameter and streams a session message followed by question, tick, timeUp and result
// messages. Clients answer with
// {"type":"answer","payload":{"answer":"..."}}. The connection closes once the session ends;
// a client that disconnects first abandons its session.
func (h *SessionHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizName := r.URL.Query().Get("quiz")
	if quizName == "" {
		http.Error(w, "missing quiz", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	stop := make(chan struct{})
	writerDone := make(chan struct{})

	// The writer keeps draining after a failed write so the session goroutine never blocks
	// on a dead connection.
	go func() {
		defer close(writerDone)
		failed := false
		write := func(msg outboundMessage[any]) {
			if failed {
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				failed = true
			}
		}
		for {
			select {
			case msg := <-send:
				write(msg)
			case <-stop:
				for {
					select {
					case msg := <-send:
						write(msg)
					default:
						return
					}
				}
			}
		}
	}()

	presenter := &wsPresenter{send: send, stop: stop}
	live, err := h.service.StartSession(r.Context(), quizName, presenter)
	if err != nil {
		presenter.emit("error", errorPayload{Message: err.Error()})
		close(stop)
		<-writerDone
		closeConn(conn, websocket.ClosePolicyViolation, err.Error())
		return
	}

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				return
			}
			switch inbound.Type {
			case "answer":
				var payload answerPayload
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					presenter.emit("error", errorPayload{Message: "invalid answer payload"})
					continue
				}
				accepted, err := live.Submit(r.Context(), payload.Answer)
				switch {
				case errors.Is(err, domain.ErrSessionFinished):
					presenter.emit("error", errorPayload{Message: "session already finished"})
				case err != nil:
					presenter.emit("error", errorPayload{Message: err.Error()})
				case !accepted:
					presenter.emit("error", errorPayload{Message: "please select an answer"})
				}
			default:
				presenter.emit("error", errorPayload{Message: "unsupported message type"})
			}
		}
	}()

	select {
	case <-live.Done():
	case <-readerDone:
		live.Abandon()
		<-live.Done()
	}

	close(stop)
	<-writerDone
	closeConn(conn, websocket.CloseNormalClosure, "session finished")
	conn.Close()
	<-readerDone
}

func closeConn(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
}
