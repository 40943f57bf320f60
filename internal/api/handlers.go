package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"askwiki/internal/history"
	"askwiki/internal/pipeline"
	"askwiki/internal/search"
)

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	RequestID string `json:"request_id"`
	Answer    string `json:"answer"`
	Source    string `json:"source"`
}

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /ask
func (s *Server) askHandler(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid question"}})
		return
	}

	outcome, err := s.pipeline.Answer(c.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, search.ErrNoResults) {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "No results found"}})
			return
		}
		log.Println("Pipeline error:", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": "Upstream unavailable", "detail": err.Error()}})
		return
	}

	requestID := uuid.NewString()
	s.saveRecord(requestID, outcome)

	c.JSON(http.StatusOK, AskResponse{
		RequestID: requestID,
		Answer:    outcome.Answer,
		Source:    outcome.SourceURL,
	})
}

// GET /history
func (s *Server) historyHandler(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, []history.Record{})
		return
	}
	records, err := s.store.Recent(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "failed to read history"}})
		return
	}
	c.JSON(http.StatusOK, records)
}

// saveRecord logs the answered question; history failures never block the
// response
func (s *Server) saveRecord(requestID string, outcome *pipeline.Outcome) {
	if s.store == nil {
		return
	}
	sources, _ := json.Marshal(outcome.Sources)
	rec := &history.Record{
		ID:        requestID,
		Question:  outcome.Question,
		Answer:    outcome.Answer,
		SourceURL: outcome.SourceURL,
		Sources:   sources,
		Outcome:   string(outcome.LLM),
	}
	if err := s.store.Save(rec); err != nil {
		log.Println("History save error:", err)
	}
}
