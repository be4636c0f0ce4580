package http

import (
	"github.com/gin-gonic/gin"
)

// follow makes the authenticated user follow another user
func (s *Server) follow(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	if err := s.socialSvc.Follow(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Now following", nil)
}

// unfollow removes a follow edge
func (s *Server) unfollow(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	if err := s.socialSvc.Unfollow(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Unfollowed", nil)
}

// listFollowers lists users following the given user
func (s *Server) listFollowers(c *gin.Context) {
	limit, offset := pagingParams(c)
	resp, err := s.socialSvc.Followers(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}

// listFollowing lists users the given user follows
func (s *Server) listFollowing(c *gin.Context) {
	limit, offset := pagingParams(c)
	resp, err := s.socialSvc.Following(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}

// getFollowCounts returns follower/following totals
func (s *Server) getFollowCounts(c *gin.Context) {
	counts, err := s.socialSvc.Counts(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", counts)
}
