// Package fixture serves dashboard payload files over the same HTTP API as
// the real backend, for demos and end-to-end tests.
package fixture

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// Config configures the fixture server.
type Config struct {
	// Users maps allowed emails to display names. Empty allows any email.
	Users       map[string]string
	Secret      string
	CORSOrigins []string
	TokenTTL    time.Duration
}

// Server is the fixture backend.
type Server struct {
	source service.DashboardFetcher
	tokens *TokenIssuer
	users  map[string]string
	engine *gin.Engine
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

// NewServer creates a server that answers dashboard requests from source.
func NewServer(source service.DashboardFetcher, cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		source: source,
		tokens: NewTokenIssuer(cfg.Secret, cfg.TokenTTL),
		users:  make(map[string]string, len(cfg.Users)),
		engine: gin.New(),
	}
	for email, name := range cfg.Users {
		s.users[strings.ToLower(email)] = name
	}

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AddAllowHeaders("Authorization")
	corsConfig.AllowCredentials = len(cfg.CORSOrigins) > 0

	s.engine.Use(gin.Recovery(), requestLogger(), cors.New(corsConfig))

	api := s.engine.Group("/api")
	api.GET("/health", s.health)
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.requireAuth())
	authed.GET("/auth/me", s.me)
	authed.GET("/dashboard/", s.dashboard)
	authed.GET("/dashboard/items", s.items)

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("Fixture request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader("X-Request-ID"),
			"duration", time.Since(start))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name, ok := s.users[email]
	if !ok {
		if len(s.users) > 0 {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Пользователь с email " + req.Email + " не найден"})
			return
		}
		name = email
	}

	token, err := s.tokens.Issue(email, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user_name":    name,
		"user_email":   email,
	})
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		claims, err := s.tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *Claims {
	v, _ := c.Get(claimsKey)
	claims, _ := v.(*Claims)
	return claims
}

func (s *Server) me(c *gin.Context) {
	claims := claimsFrom(c)
	c.JSON(http.StatusOK, model.Profile{Name: claims.FullName, Email: claims.Subject})
}

func (s *Server) load(c *gin.Context) (*model.Payload, bool) {
	filters := model.Filters{
		Period:      model.Period(c.DefaultQuery("fiscal_year", string(model.PeriodCurrent))),
		OrderStatus: model.OrderStatus(c.DefaultQuery("order_status", string(model.OrderStatusActive))),
	}
	if err := filters.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return nil, false
	}

	payload, err := s.source.FetchDashboard(c.Request.Context(), filters)
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"user_name": claimsFrom(c).FullName, "items": []model.Item{}})
		return nil, false
	case err != nil:
		slog.Error("Fixture payload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Ошибка при загрузке данных"})
		return nil, false
	}

	if name := claimsFrom(c).FullName; name != "" {
		payload.UserName = name
	}
	return payload, true
}

func (s *Server) dashboard(c *gin.Context) {
	if payload, ok := s.load(c); ok {
		c.JSON(http.StatusOK, payload)
	}
}

func (s *Server) items(c *gin.Context) {
	if payload, ok := s.load(c); ok {
		c.JSON(http.StatusOK, payload.Items)
	}
}
