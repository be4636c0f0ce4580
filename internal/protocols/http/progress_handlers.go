package http

import (
	"github.com/gin-gonic/gin"

	"github.com/msrishav-28/penpal/pkg/models"
)

// upsertProgress creates or updates the user's progress on a book
func (s *Server) upsertProgress(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req models.UpsertProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.BookID == "" {
		respondBadRequest(c, "book_id is required")
		return
	}

	progress, err := s.progressSvc.Upsert(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Progress updated", gin.H{"progress": progress})
}

// getProgress returns the user's progress on one book
func (s *Server) getProgress(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	progress, err := s.progressSvc.Get(c.Request.Context(), userID, c.Param("bookId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", gin.H{"progress": progress, "percent_complete": progress.PercentComplete()})
}

// listProgress returns the user's library, optionally filtered by status
func (s *Server) listProgress(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	limit, offset := pagingParams(c)
	resp, err := s.progressSvc.List(c.Request.Context(), userID, c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}
