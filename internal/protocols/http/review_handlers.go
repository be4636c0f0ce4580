package http

import (
	"github.com/gin-gonic/gin"

	"github.com/msrishav-28/penpal/pkg/models"
)

// createReview posts a review for a book
func (s *Server) createReview(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	review, err := s.reviewSvc.Create(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Review posted", gin.H{"review": review})
}

// listBookReviews returns reviews of a book
func (s *Server) listBookReviews(c *gin.Context) {
	limit, offset := pagingParams(c)
	resp, err := s.reviewSvc.ListByBook(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}

// listUserReviews returns reviews written by a user
func (s *Server) listUserReviews(c *gin.Context) {
	limit, offset := pagingParams(c)
	resp, err := s.reviewSvc.ListByUser(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}

// deleteReview removes the user's own review
func (s *Server) deleteReview(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	if err := s.reviewSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Review deleted", nil)
}
