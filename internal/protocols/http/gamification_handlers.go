package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// getAchievements returns earned and available achievements with progress
func (s *Server) getAchievements(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	achievements, err := s.gamificationSvc.GetUserAchievements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", achievements)
}

// getGamificationProfile returns the full XP/level/badge view
func (s *Server) getGamificationProfile(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	profile, err := s.gamificationSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", profile)
}

// getLeaderboard returns the top readers by XP
func (s *Server) getLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := s.gamificationSvc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", gin.H{"leaderboard": entries})
}
