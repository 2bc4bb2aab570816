/*
Package server exposes the agent over HTTP. The JSON API covers chat,
feedback, traces and learning exports; a WebSocket endpoint streams
completed traces to observers as they finish.
*/
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/askdeck/askdeck/internal/agent"
	"github.com/askdeck/askdeck/internal/learning"
	"github.com/askdeck/askdeck/internal/trace"
)

// Server wires the agent and its services into an HTTP API.
type Server struct {
	agent    *agent.Agent
	learn    *learning.Service
	tracer   *trace.Service
	log      *logrus.Logger
	upgrader websocket.Upgrader

	httpSrv *http.Server
}

// NewServer creates a server around an assembled agent.
func NewServer(a *agent.Agent, learn *learning.Service, tracer *trace.Service, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		agent:  a,
		learn:  learn,
		tracer: tracer,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Trace stream is read-only observability data.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/chat", s.handleChat)
		api.POST("/feedback", s.handleFeedback)
		api.GET("/traces", s.handleTraces)
		api.GET("/traces/:id", s.handleTraceExport)
		api.GET("/learning/export", s.handleLearningExport)
		api.GET("/learning/patterns", s.handleLearningPatterns)
	}
	r.GET("/ws/traces", s.handleTraceStream)

	return r
}

// Run starts the HTTP server and blocks until it exits or Shutdown is called.
func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("Starting askdeck server")
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// requestLogger logs one line per request through logrus.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(started).String(),
		}).Info("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type chatRequest struct {
	UserID    string `json:"userId" binding:"required"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.agent.ProcessMessage(c.Request.Context(), req.UserID, req.SessionID, req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type feedbackRequest struct {
	SessionID    string `json:"sessionId" binding:"required"`
	Feedback     string `json:"feedback" binding:"required"`
	Satisfaction int    `json:"satisfaction"`
}

func (s *Server) handleFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb := learning.Feedback(req.Feedback)
	switch fb {
	case learning.FeedbackPositive, learning.FeedbackNeutral, learning.FeedbackNegative:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "feedback must be positive, neutral or negative"})
		return
	}

	applied := s.learn.RecordFeedback(req.SessionID, fb, req.Satisfaction)
	if !applied {
		c.JSON(http.StatusNotFound, gin.H{"error": "no interaction found for session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": true})
}

func (s *Server) handleTraces(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"traces": s.tracer.History()})
}

func (s *Server) handleTraceExport(c *gin.Context) {
	data, err := s.tracer.ExportTrace(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) handleLearningExport(c *gin.Context) {
	data, err := s.learn.ExportLearningData()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) handleLearningPatterns(c *gin.Context) {
	c.JSON(http.StatusOK, s.learn.AnalyzeLearningPatterns())
}

// handleTraceStream upgrades to WebSocket and pushes each completed trace.
// Slow consumers drop traces rather than stalling the pipeline.
func (s *Server) handleTraceStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	queue := make(chan trace.Trace, 16)
	unsubscribe := s.tracer.Subscribe(func(t trace.Trace) {
		select {
		case queue <- t:
		default:
		}
	})
	defer unsubscribe()
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain control frames; a read error means the client went away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case t := <-queue:
			if err := conn.WriteJSON(t); err != nil {
				return
			}
		}
	}
}
