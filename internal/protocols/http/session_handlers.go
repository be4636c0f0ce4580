package http

import (
	"github.com/gin-gonic/gin"

	"github.com/msrishav-28/penpal/pkg/models"
)

// startSession begins a reading session
func (s *Server) startSession(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.BookID == "" {
		respondBadRequest(c, "book_id is required")
		return
	}

	session, err := s.sessionSvc.Start(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Reading session started", gin.H{"session": session})
}

// endSession completes a reading session and returns the gamification
// results of the cascade
func (s *Server) endSession(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req models.EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := s.sessionSvc.End(c.Request.Context(), userID, c.Param("sessionId"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Reading session completed", result)
}

// getActiveSession returns the user's active session, if any
func (s *Server) getActiveSession(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	session, err := s.sessionSvc.GetActive(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", gin.H{"session": session})
}

// listSessions returns the user's session history
func (s *Server) listSessions(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req models.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "invalid query parameters")
		return
	}

	resp, err := s.sessionSvc.List(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}

// getSessionStats aggregates the user's completed sessions
func (s *Server) getSessionStats(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	stats, err := s.sessionSvc.Stats(c.Request.Context(), userID, c.DefaultQuery("period", "all"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", stats)
}
