package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/msrishav-28/penpal/internal/core"
	ws "github.com/msrishav-28/penpal/internal/protocols/websocket"
	"github.com/msrishav-28/penpal/pkg/config"
)

// Server manages the HTTP REST API server
type Server struct {
	router          *gin.Engine
	config          *config.Config
	authSvc         core.AuthService
	bookSvc         core.BookService
	sessionSvc      core.SessionService
	gamificationSvc core.GamificationService
	progressSvc     core.ProgressService
	reviewSvc       core.ReviewService
	socialSvc       core.SocialService
	activitySvc     core.ActivityService
	notificationSvc core.NotificationService
	importSvc       core.ImportService
	hub             *ws.Hub
}

// NewServer creates a new HTTP server with all handlers
func NewServer(
	cfg *config.Config,
	authSvc core.AuthService,
	bookSvc core.BookService,
	sessionSvc core.SessionService,
	gamificationSvc core.GamificationService,
	progressSvc core.ProgressService,
	reviewSvc core.ReviewService,
	socialSvc core.SocialService,
	activitySvc core.ActivityService,
	notificationSvc core.NotificationService,
	importSvc core.ImportService,
	hub *ws.Hub,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	s := &Server{
		router:          router,
		config:          cfg,
		authSvc:         authSvc,
		bookSvc:         bookSvc,
		sessionSvc:      sessionSvc,
		gamificationSvc: gamificationSvc,
		progressSvc:     progressSvc,
		reviewSvc:       reviewSvc,
		socialSvc:       socialSvc,
		activitySvc:     activitySvc,
		notificationSvc: notificationSvc,
		importSvc:       importSvc,
		hub:             hub,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	// Reading room websocket
	if s.hub != nil {
		s.router.GET("/ws/rooms/:book_id", ws.Handler(s.hub, s.authSvc))
	}

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", s.register)
			auth.POST("/login", s.login)
		}

		// Admin routes (requires admin role)
		admin := v1.Group("/admin", AuthMiddleware(s.authSvc), AdminMiddleware())
		{
			admin.PUT("/users/:id/role", s.updateUserRole)
		}

		// Book catalog
		v1.GET("/books", s.listBooks)              // Public: recently added
		v1.GET("/books/search", s.searchBooks)     // Public: search
		v1.GET("/books/:id", s.getBook)            // Public: single book
		v1.GET("/books/:id/reviews", s.listBookReviews)

		protected := v1.Group("", AuthMiddleware(s.authSvc))
		{
			protected.GET("/auth/me", s.me)

			protected.POST("/books", s.createBook)
			protected.PUT("/books/:id", s.updateBook)
			protected.POST("/books/:id/reviews", s.createReview)
			protected.DELETE("/reviews/:id", s.deleteReview)

			// Reading sessions
			session := protected.Group("/reading-session")
			{
				session.POST("/session/start", s.startSession)
				session.POST("/session/:sessionId/end", s.endSession)
				session.GET("/session/active", s.getActiveSession)
				session.GET("/sessions", s.listSessions)
				session.GET("/stats", s.getSessionStats)
			}

			// Gamification
			gamification := protected.Group("/gamification")
			{
				gamification.GET("/achievements", s.getAchievements)
				gamification.GET("/profile", s.getGamificationProfile)
				gamification.GET("/leaderboard", s.getLeaderboard)
			}

			// Reading progress
			protected.GET("/progress", s.listProgress)
			protected.PUT("/progress", s.upsertProgress)
			protected.GET("/progress/book/:bookId", s.getProgress)

			// Social graph
			protected.POST("/users/:id/follow", s.follow)
			protected.DELETE("/users/:id/follow", s.unfollow)
			protected.GET("/users/:id/followers", s.listFollowers)
			protected.GET("/users/:id/following", s.listFollowing)
			protected.GET("/users/:id/follow-counts", s.getFollowCounts)
			protected.GET("/users/:id/reviews", s.listUserReviews)

			// Activity feed
			protected.GET("/activity/feed", s.getFeed)
			protected.GET("/activity/user/:id", s.getUserActivity)

			// Notifications
			protected.GET("/notifications", s.listNotifications)
			protected.PUT("/notifications/:id/read", s.markNotificationRead)
			protected.PUT("/notifications/read-all", s.markAllNotificationsRead)

			// Goodreads import
			protected.POST("/import/goodreads", s.importGoodreads)
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
