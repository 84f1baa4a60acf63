// Package devstub is a local stand-in for the marketing-notification
// platform API. It implements the auth and resource endpoints the client
// consumes, with signed tokens and in-memory demo data, so the CLI and the
// integration tests can run without the real backend.
package devstub

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/indiriim/go-notify-admin/platform"
	"github.com/indiriim/go-notify-admin/roles"
	"github.com/indiriim/go-notify-admin/session"
)

const (
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeTokenExpired       = "TOKEN_EXPIRED"
	codeForbidden          = "FORBIDDEN"
)

// Options configures the stub.
type Options struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Log             zerolog.Logger
}

type account struct {
	user         session.User
	passwordHash string
}

func (a account) checkPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)) == nil
}

type refreshGrant struct {
	email     string
	expiresAt time.Time
}

// Server holds the stub's mutable world behind one lock; contention is not
// a concern at dev-stub scale.
type Server struct {
	opts    Options
	engine  *gin.Engine
	nowTime func() time.Time

	lock          sync.Mutex
	accounts      map[string]account
	refreshGrants map[string]refreshGrant
	notifications []platform.Notification
	segments      []platform.Segment
	templates     []platform.Template
	automations   []platform.Automation
	settings      platform.Settings
	nextID        int64
}

// New creates a stub server with the demo fixtures loaded.
func New(opts Options) *Server {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "devstub-secret"
	}
	if opts.AccessTokenTTL == 0 {
		opts.AccessTokenTTL = 15 * time.Minute
	}
	if opts.RefreshTokenTTL == 0 {
		opts.RefreshTokenTTL = 7 * 24 * time.Hour
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		opts:          opts,
		engine:        gin.New(),
		nowTime:       time.Now,
		accounts:      demoAccounts(),
		refreshGrants: make(map[string]refreshGrant),
	}
	s.loadFixtures()
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

// Handler returns the stub wrapped for browser use.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
	})
	return c.Handler(s.engine)
}

func (s *Server) routes() {
	v1 := s.engine.Group("/api/v1")
	v1.POST("/auth/login", s.handleLogin)
	v1.POST("/auth/refresh", s.handleRefresh)
	v1.POST("/auth/logout", s.handleLogout)

	authed := v1.Group("", s.requireBearer)
	authed.GET("/dashboard/summary", s.handleDashboardSummary)
	authed.GET("/notifications", s.handleListNotifications)
	authed.POST("/notifications", s.requireWrite, s.handleCreateNotification)
	authed.GET("/segments", s.handleListSegments)
	authed.POST("/segments", s.requireWrite, s.handleCreateSegment)
	authed.PUT("/segments/:id", s.requireWrite, s.handleUpdateSegment)
	authed.GET("/templates", s.handleListTemplates)
	authed.POST("/templates", s.requireWrite, s.handleCreateTemplate)
	authed.PUT("/templates/:id", s.requireWrite, s.handleUpdateTemplate)
	authed.DELETE("/templates/:id", s.requireManage, s.handleDeleteTemplate)
	authed.GET("/automations", s.handleListAutomations)
	authed.GET("/settings", s.handleGetSettings)
	authed.PUT("/settings", s.requireManage, s.handleUpdateSettings)
}

func failJSON(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message, "errorCode": code})
}

type userPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func payloadFor(u session.User) userPayload {
	return userPayload{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "malformed login request", "")
		return
	}

	s.lock.Lock()
	acct, ok := s.accounts[strings.ToLower(req.Email)]
	s.lock.Unlock()
	if !ok || !acct.checkPassword(req.Password) {
		failJSON(c, http.StatusUnauthorized, "invalid email or password", codeInvalidCredentials)
		return
	}
	s.respondWithTokens(c, acct.user)
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		failJSON(c, http.StatusBadRequest, "malformed refresh request", "")
		return
	}

	s.lock.Lock()
	grant, ok := s.refreshGrants[req.RefreshToken]
	if ok {
		// Rotation: a refresh token is single use.
		delete(s.refreshGrants, req.RefreshToken)
	}
	var acct account
	if ok {
		acct, ok = s.accounts[grant.email]
	}
	s.lock.Unlock()

	if !ok || s.nowTime().After(grant.expiresAt) {
		failJSON(c, http.StatusUnauthorized, "refresh token expired", codeTokenExpired)
		return
	}
	s.respondWithTokens(c, acct.user)
}

func (s *Server) handleLogout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "malformed logout request", "")
		return
	}
	s.lock.Lock()
	delete(s.refreshGrants, req.RefreshToken)
	s.lock.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) respondWithTokens(c *gin.Context, user session.User) {
	accessToken, err := s.mintAccessToken(user)
	if err != nil {
		failJSON(c, http.StatusInternalServerError, "failed to issue token", "")
		return
	}

	refreshToken := uuid.New().String()
	s.lock.Lock()
	s.refreshGrants[refreshToken] = refreshGrant{
		email:     strings.ToLower(user.Email),
		expiresAt: s.nowTime().Add(s.opts.RefreshTokenTTL),
	}
	s.lock.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"token":        accessToken,
		"refreshToken": refreshToken,
		"user":         payloadFor(user),
	})
}

func (s *Server) mintAccessToken(user session.User) (string, error) {
	now := s.nowTime()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.opts.AccessTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.JWTSecret))
}

const ctxRoleKey = "devstub.role"

func (s *Server) requireBearer(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		failJSON(c, http.StatusUnauthorized, "missing bearer token", codeTokenExpired)
		return
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.nowTime))
	if err != nil {
		failJSON(c, http.StatusUnauthorized, "token expired or invalid", codeTokenExpired)
		return
	}

	role, _ := claims["role"].(string)
	c.Set(ctxRoleKey, roles.Tag(role))
	c.Next()
}

func (s *Server) callerRole(c *gin.Context) roles.Tag {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return ""
	}
	role, _ := v.(roles.Tag)
	return role
}

func (s *Server) requireWrite(c *gin.Context) {
	if !roles.CanWrite(s.callerRole(c)) {
		failJSON(c, http.StatusForbidden, "your role does not allow this operation", codeForbidden)
		return
	}
	c.Next()
}

func (s *Server) requireManage(c *gin.Context) {
	if !roles.CanManage(s.callerRole(c)) {
		failJSON(c, http.StatusForbidden, "a manager role is required for this operation", codeForbidden)
		return
	}
	c.Next()
}
