package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/galuhdigital/minutes/backend/internal/auth"
	"github.com/galuhdigital/minutes/backend/internal/export"
	"github.com/galuhdigital/minutes/backend/internal/minutes"
	"github.com/galuhdigital/minutes/backend/internal/query"
	"github.com/galuhdigital/minutes/backend/internal/results"
	"github.com/galuhdigital/minutes/backend/internal/upload"
	"github.com/galuhdigital/minutes/backend/internal/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionContextKey = "minutes_session"

var (
	errMissingCredentials    = errors.New("credential checker dependency required")
	errMissingTokenManager   = errors.New("token manager dependency required")
	errMissingMinutesService = errors.New("minutes service dependency required")
	errMissingResultsService = errors.New("results service dependency required")
	errInvalidAuthorization  = errors.New("authorization header missing or invalid")
)

// CredentialChecker verifies a submitted username/password pair.
type CredentialChecker interface {
	Verify(username, password string) (auth.SessionClaims, error)
}

// TokenManager issues and validates session tokens.
type TokenManager interface {
	IssueSessionToken(ctx context.Context, claims auth.SessionClaims) (string, int64, error)
	ValidateToken(token string) (auth.SessionClaims, error)
}

// Dependencies wires the HTTP layer to the domain services.
type Dependencies struct {
	Credentials    CredentialChecker
	TokenManager   TokenManager
	Accounts       *users.Service
	MinutesService *minutes.Service
	ResultsService *results.Service
	Uploads        *upload.Service
	Exporter       *export.Exporter
	RequireImages  bool
	UploadRoute    string
	Logger         *zap.Logger
}

// NewHTTPHandler assembles the gin router for the whole API surface.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Credentials == nil {
		return nil, errMissingCredentials
	}
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}
	if deps.MinutesService == nil {
		return nil, errMissingMinutesService
	}
	if deps.ResultsService == nil {
		return nil, errMissingResultsService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	minutesEngine, err := minutes.NewQueryEngine()
	if err != nil {
		return nil, err
	}
	resultsEngine, err := results.NewQueryEngine()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		credentials:    deps.Credentials,
		tokens:         deps.TokenManager,
		accounts:       deps.Accounts,
		minutesService: deps.MinutesService,
		resultsService: deps.ResultsService,
		uploads:        deps.Uploads,
		exporter:       deps.Exporter,
		minutesEngine:  minutesEngine,
		resultsEngine:  resultsEngine,
		minutesStore:   query.NewStore[minutes.MeetingMinute](),
		resultsStore:   query.NewStore[results.MeetingResult](),
		requireImages:  deps.RequireImages,
		logger:         logger,
	}

	router.POST("/auth/login", handler.handleLogin)

	if deps.Uploads != nil {
		route := deps.UploadRoute
		if route == "" {
			route = "/uploads"
		}
		router.Static(route, deps.Uploads.Directory())
	}

	protected := router.Group("/")
	protected.Use(handler.authorizeRequest)

	protected.GET("/minutes", handler.handleListMinutes)
	protected.GET("/minutes/:id", handler.handleGetMinute)
	protected.POST("/minutes", handler.handleCreateMinute)
	protected.PUT("/minutes/:id", handler.handleUpdateMinute)
	protected.DELETE("/minutes/:id", handler.handleDeleteMinute)
	protected.GET("/minutes/:id/export", handler.handleExportMinute)
	protected.POST("/minutes/:id/images", handler.handleAttachImages)
	protected.PUT("/minutes/:id/images/:imageId", handler.handleReplaceImage)
	protected.DELETE("/minutes/:id/images/:imageId", handler.handleRemoveImage)

	protected.GET("/results", handler.handleListResults)
	protected.GET("/results/:id", handler.handleGetResult)
	protected.POST("/results", handler.handleCreateResult)
	protected.PUT("/results/:id", handler.handleUpdateResult)
	protected.DELETE("/results/:id", handler.handleDeleteResult)
	protected.GET("/results/:id/export", handler.handleExportResult)

	protected.POST("/upload/images", handler.handleUploadImages)

	return router, nil
}

type httpHandler struct {
	credentials    CredentialChecker
	tokens         TokenManager
	accounts       *users.Service
	minutesService *minutes.Service
	resultsService *results.Service
	uploads        *upload.Service
	exporter       *export.Exporter
	minutesEngine  *minutesQueryEngine
	resultsEngine  *resultsQueryEngine
	minutesStore   *query.Store[minutes.MeetingMinute]
	resultsStore   *query.Store[results.MeetingResult]
	requireImages  bool
	logger         *zap.Logger
}

type loginRequestPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponsePayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var request loginRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Username) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	claims, err := h.credentials.Verify(request.Username, request.Password)
	if err != nil {
		h.logger.Warn("login rejected", zap.String("username", request.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if h.accounts != nil {
		if _, err := h.accounts.RecordLogin(claims.Subject, claims.DisplayName); err != nil {
			h.logger.Warn("login bookkeeping failed", zap.Error(err))
		}
	}

	token, expiresIn, err := h.tokens.IssueSessionToken(c.Request.Context(), claims)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
		return
	}

	c.JSON(http.StatusOK, loginResponsePayload{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
	})
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(sessionContextKey, claims)
	c.Next()
}
