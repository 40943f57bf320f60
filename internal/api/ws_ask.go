package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"askwiki/internal/pipeline"
	"askwiki/internal/search"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsAskRequest struct {
	Question string `json:"question"`
}

// GET /ws/ask answers one question per connection, streaming stage
// progress events before the final answer
func (s *Server) wsAskHandler(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	defer conn.Close()

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return
	}

	var req wsAskRequest
	if err := json.Unmarshal(msg, &req); err != nil || req.Question == "" {
		conn.WriteJSON(map[string]string{"error": "invalid question"})
		return
	}

	// per-connection pipeline copy so the observer writes to this socket
	pl := pipeline.New(s.searcher, s.extractor, s.completer)
	pl.RetryNextResult = s.pipeline.RetryNextResult
	pl.Observer = func(stage string) {
		conn.WriteJSON(map[string]string{"stage": stage})
	}

	outcome, err := pl.Answer(c.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, search.ErrNoResults) {
			conn.WriteJSON(map[string]string{"error": "no results found"})
			return
		}
		log.Println("Pipeline error:", err)
		conn.WriteJSON(map[string]string{"error": "upstream unavailable"})
		return
	}

	requestID := uuid.NewString()
	s.saveRecord(requestID, outcome)

	conn.WriteJSON(map[string]string{
		"request_id": requestID,
		"answer":     outcome.Answer,
		"source":     outcome.SourceURL,
	})
}
