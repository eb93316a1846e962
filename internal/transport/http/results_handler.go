package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"timed-quiz-service/internal/domain"
)

// ResultSource hands out subscriptions to finished session results.
type ResultSource interface {
	Subscribe() (<-chan domain.Result, func())
}

// ResultsHandler streams every finished session result to websocket watchers.
type ResultsHandler struct {
	source   ResultSource
	upgrader websocket.Upgrader
}

func NewResultsHandler(source ResultSource) *ResultsHandler {
	return &ResultsHandler{source: source, upgrader: newUpgrader()}
}

func (h *ResultsHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so nothing published after the dial is missed.
	results, cancel := h.source.Subscribe()
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Watchers never send anything; reading is only needed to notice the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case result, ok := <-results:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.Result]{Type: "result", Payload: result}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-gone:
			return
		}
	}
}
