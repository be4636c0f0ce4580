package http

import (
	"github.com/gin-gonic/gin"
)

// listNotifications returns the user's notification inbox
func (s *Server) listNotifications(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	limit, offset := pagingParams(c)
	unreadOnly := c.Query("unread") == "true"

	resp, err := s.notificationSvc.List(c.Request.Context(), userID, unreadOnly, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}

// markNotificationRead marks one notification as read
func (s *Server) markNotificationRead(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	if err := s.notificationSvc.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Notification marked read", nil)
}

// markAllNotificationsRead clears the unread count
func (s *Server) markAllNotificationsRead(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	if err := s.notificationSvc.MarkAllRead(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "All notifications marked read", nil)
}
