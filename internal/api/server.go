package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/david/shipment-tracker/internal/auth"
	"github.com/david/shipment-tracker/internal/config"
	"github.com/david/shipment-tracker/internal/db"
	"github.com/david/shipment-tracker/internal/docextract"
	"github.com/david/shipment-tracker/internal/extract"
	"github.com/david/shipment-tracker/internal/models"
	"github.com/david/shipment-tracker/internal/textprep"
)

type Server struct {
	Runs        *db.RunStore
	AuthService *auth.Service
	Echo        *echo.Echo
	DB          *pgxpool.Pool
	Engine      *extract.Engine
	Docs        *docextract.Registry
	ConfigCache *config.Cached
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool) (*Server, error) {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	// Rules come from the database with static defaults layered underneath,
	// all behind a TTL snapshot cache shared by every request.
	cache := config.NewCached(&config.WithFallback{
		Primary:  config.NewPG(pool),
		Fallback: config.Defaults(),
	}, config.DefaultTTL)

	docs, err := docextract.LoadRegistry(os.Getenv("SCHEMAS_PATH"))
	if err != nil {
		return nil, fmt.Errorf("load document schemas: %w", err)
	}

	s := &Server{
		DB:          pool,
		Runs:        db.NewRunStore(pool),
		AuthService: auth.NewService(pool),
		Echo:        e,
		Engine:      extract.NewEngine(nil, cache),
		Docs:        docs,
		ConfigCache: cache,
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.POST("/extract", s.handleExtract)
	api.POST("/extract/document", s.handleExtractDocument)
	api.GET("/sender-category", s.handleSenderCategory)
	api.GET("/document-types", s.handleDocumentTypes)

	// Auth Routes
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Protected Routes (run history)
	history := api.Group("/runs")
	history.Use(auth.RequireAuth)
	history.GET("", s.handleListRuns)

	// Admin Routes
	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.GET("/admin/runs", s.handleAdminRuns)
	admin.POST("/admin/config/refresh", s.handleConfigRefresh)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

type extractRequest struct {
	Sender     string `json:"sender"`
	TrueSender string `json:"true_sender,omitempty"`
	Text       string `json:"text"`
	SourceType string `json:"source_type,omitempty"`
}

func (s *Server) handleExtract(c echo.Context) error {
	var req extractRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(req.Sender) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sender is required"})
	}

	text := req.Text
	if textprep.LooksLikeHTML(text) {
		text = textprep.HTMLToText(text)
	}

	sourceType := extract.SourceEmail
	if req.SourceType == string(extract.SourceDocument) {
		sourceType = extract.SourceDocument
	}

	result := s.Engine.Extract(c.Request().Context(), extract.ExtractionInput{
		RawText:        text,
		SenderIdentity: req.Sender,
		TrueSender:     req.TrueSender,
		SourceType:     sourceType,
	})

	runID := uuid.New()
	run := models.ExtractionRun{
		RunID:           runID,
		Sender:          req.Sender,
		Category:        string(result.Category),
		SourceType:      string(sourceType),
		TotalExtracted:  result.Summary.TotalExtracted,
		RequiredFound:   result.Summary.RequiredFound,
		RequiredMissing: len(result.Summary.RequiredMissing),
		CriticalFound:   result.Summary.CriticalFound,
		LinkableFound:   result.Summary.LinkableFound,
		AvgConfidence:   result.Summary.AvgConfidence,
		DurationMS:      result.Summary.Duration.Milliseconds(),
	}
	if err := s.Runs.InsertRun(c.Request().Context(), run); err != nil {
		// Extraction already succeeded; a failed audit insert should not
		// fail the request.
		c.Logger().Errorf("Failed to record extraction run: %v", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"run_id":   runID,
		"category": result.Category,
		"entities": result.Entities,
		"summary":  result.Summary,
	})
}

type extractDocumentRequest struct {
	Sender       string `json:"sender,omitempty"`
	DocumentType string `json:"document_type"`
	Text         string `json:"text"`
}

func (s *Server) handleExtractDocument(c echo.Context) error {
	var req extractDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(req.DocumentType) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "document_type is required"})
	}

	result := s.Docs.Extract(req.DocumentType, req.Text)
	if result == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"supported":     false,
			"document_type": req.DocumentType,
		})
	}

	run := models.ExtractionRun{
		RunID:          uuid.New(),
		Sender:         req.Sender,
		Category:       string(extract.DetectSenderCategory(req.Sender)),
		SourceType:     string(extract.SourceDocument),
		DocumentType:   req.DocumentType,
		TotalExtracted: len(result.Fields),
		AvgConfidence:  result.Confidence,
	}
	if err := s.Runs.InsertRun(c.Request().Context(), run); err != nil {
		c.Logger().Errorf("Failed to record extraction run: %v", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"supported": true,
		"result":    result,
	})
}

func (s *Server) handleSenderCategory(c echo.Context) error {
	sender := c.QueryParam("sender")
	if strings.TrimSpace(sender) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sender query param required"})
	}
	category := extract.DetectSenderCategoryWithFallback(sender, c.QueryParam("true_sender"))
	return c.JSON(http.StatusOK, map[string]string{
		"sender":   sender,
		"category": string(category),
	})
}

func (s *Server) handleDocumentTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"document_types": s.Docs.DocumentTypes(),
	})
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrUserExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListRuns(c echo.Context) error {
	if _, err := auth.UserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	limit := 20
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	runs, err := s.Runs.ListRecentRuns(c.Request().Context(), limit)
	if err != nil {
		c.Logger().Errorf("Failed to list runs: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	if runs == nil {
		runs = []models.ExtractionRun{}
	}

	return c.JSON(http.StatusOK, runs)
}

func (s *Server) handleAdminRuns(c echo.Context) error {
	limit := 50
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	runs, err := s.Runs.ListRecentRuns(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}

func (s *Server) handleConfigRefresh(c echo.Context) error {
	s.ConfigCache.Invalidate()
	return c.JSON(http.StatusOK, map[string]string{"message": "Rule cache invalidated"})
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		// Check X-Admin-Secret header or Bearer token
		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
