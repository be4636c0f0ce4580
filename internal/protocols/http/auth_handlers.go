package http

import (
	"github.com/gin-gonic/gin"

	"github.com/msrishav-28/penpal/pkg/models"
)

// register handles user registration
func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondBadRequest(c, "username and password are required")
		return
	}

	user, err := s.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "User registered successfully", gin.H{"user": user})
}

// login handles user authentication
func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondBadRequest(c, "username and password are required")
		return
	}

	resp, err := s.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Login successful", resp)
}

// me returns the authenticated user
func (s *Server) me(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	user, err := s.authSvc.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{"user": user})
}

// updateUserRole allows admins to change user roles
func (s *Server) updateUserRole(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		respondBadRequest(c, "user id is required")
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := s.authSvc.UpdateUserRole(c.Request.Context(), userID, req.Role); err != nil {
		respondError(c, err)
		return
	}

	user, err := s.authSvc.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "User role updated successfully", gin.H{"user": user})
}
