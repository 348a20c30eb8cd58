package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/nfe-emitter/internal/accesskey"
	"github.com/rezonia/nfe-emitter/internal/config"
	"github.com/rezonia/nfe-emitter/internal/generator"
	"github.com/rezonia/nfe-emitter/internal/model"
)

// Config holds server configuration
type Config struct {
	Address      string
	Emitter      config.Config
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	generator *generator.Generator
}

// NewServer creates a new API server
func NewServer(cfg *Config) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:    cfg,
		router:    router,
		generator: generator.New(cfg.Emitter),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/emit", s.handleEmit)
		v1.POST("/key/check", s.handleKeyCheck)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleEmit(c *gin.Context) {
	var op model.Operation
	if err := c.ShouldBindJSON(&op); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid operation payload", Details: err.Error()})
		return
	}

	doc, err := s.generator.Generate(&op)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	xmlData, err := doc.XML()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, EmitResponse{
		Key:      doc.Key,
		CNF:      op.Invoice.CNF,
		XMLName:  doc.XMLFileName(),
		TextName: doc.TextFileName(),
		XML:      string(xmlData),
		Text:     doc.Text(),
	})
}

func (s *Server) handleKeyCheck(c *gin.Context) {
	var req KeyCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}

	key := req.Key
	if extracted := accesskey.FromID(key); extracted != "" {
		key = extracted
	}

	c.JSON(http.StatusOK, KeyCheckResponse{
		Key:   key,
		Valid: accesskey.Verify(key),
	})
}

// statusFor maps the error taxonomy onto HTTP statuses: bad input is
// unprocessable, generator bugs are internal.
func statusFor(err error) int {
	var inconsistency *model.DataInconsistencyError
	var unsupported *model.UnsupportedVariantError
	if errors.As(err, &inconsistency) || errors.As(err, &unsupported) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
