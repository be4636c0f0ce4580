package http

import (
	"github.com/gin-gonic/gin"
)

// getFeed returns the authenticated user's home feed: their own
// activities plus everyone they follow
func (s *Server) getFeed(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	limit, offset := pagingParams(c)
	resp, err := s.activitySvc.Feed(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}

// getUserActivity returns one user's public activity history
func (s *Server) getUserActivity(c *gin.Context) {
	limit, offset := pagingParams(c)
	resp, err := s.activitySvc.ForUser(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}
