// Package server wires the dashboard onto a gin engine: session cookies,
// page rendering, the mutation endpoints and the downloads.
package server

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/gob"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/Zachkp/cs-journey/internal/analytics"
	"github.com/Zachkp/cs-journey/internal/logging"
	"github.com/Zachkp/cs-journey/internal/portfolio"
	"github.com/Zachkp/cs-journey/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	cookieName      = "portfolio-session"
	keySessionID    = "sid"
	shutdownTimeout = 5 * time.Second
)

func init() {
	gob.Register(session.Notification{})
}

// Options configures a Server. Tracker and Admin are optional.
type Options struct {
	Content       *portfolio.Content
	Store         *session.Store
	SessionSecret string
	SecureCookie  bool
	Tracker       *analytics.Tracker
	Admin         *analytics.Admin
	Logger        *zap.Logger
}

type Server struct {
	engine  *gin.Engine
	content *portfolio.Content
	store   *session.Store
	cookies *sessions.CookieStore
	tracker *analytics.Tracker
	logger  *zap.Logger
}

// New builds the gin engine and registers every route.
func New(opts Options) (*Server, error) {
	if opts.Content == nil || opts.Store == nil {
		return nil, errors.New("server: content and store are required")
	}
	if opts.SessionSecret == "" {
		return nil, errors.New("server: session secret is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// any passphrase works; hash it to a 32-byte signing key
	key := sha256.Sum256([]byte(opts.SessionSecret))
	cookies := sessions.NewCookieStore(key[:])
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.RequestLogger(logger))
	if opts.Tracker != nil {
		engine.Use(opts.Tracker.Middleware())
	}
	engine.SetHTMLTemplate(tmpl)
	engine.StaticFS("/static", http.FS(static))

	s := &Server{
		engine:  engine,
		content: opts.Content,
		store:   opts.Store,
		cookies: cookies,
		tracker: opts.Tracker,
		logger:  logger,
	}
	s.routes()
	if opts.Admin != nil {
		opts.Admin.RegisterRoutes(engine)
	}
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.POST("/projects/select", s.handleSelectProject)
	s.engine.POST("/study-log", s.handleLogStudy)
	s.engine.POST("/boost", s.handleBoost)
	s.engine.GET("/resume.txt", s.handleResume)
	s.engine.GET("/study-log.txt", s.handleStudyLogExport)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting portfolio server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down portfolio server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
