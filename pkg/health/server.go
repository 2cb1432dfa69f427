package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server provides health and metrics endpoints for agent mode
type Server struct {
	port         int
	statusGetter StatusGetter
	server       *http.Server

	mu        sync.RWMutex
	agentInfo *AgentInfo
}

// AgentInfo contains basic agent information
type AgentInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
	LinkEndpoint string   `json:"link_endpoint"`
	FileEndpoint string   `json:"file_endpoint"`
}

// StatusGetter reports the live state of the task handler
type StatusGetter interface {
	IsReady() bool
	GetActiveTaskCount() int
	GetHandledTaskCount() int64
	GetUptime() time.Duration
}

// HealthStatus represents the agent's health status
type HealthStatus struct {
	Status       string    `json:"status"`
	Ready        bool      `json:"ready"`
	ActiveTasks  int       `json:"active_tasks"`
	HandledTasks int64     `json:"handled_tasks"`
	Uptime       string    `json:"uptime"`
	Timestamp    time.Time `json:"timestamp"`
	Agent        AgentInfo `json:"agent"`
}

// NewServer creates a new health monitoring server
func NewServer(port int, agentInfo *AgentInfo, statusGetter StatusGetter) *Server {
	s := &Server{
		port:         port,
		agentInfo:    agentInfo,
		statusGetter: statusGetter,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the endpoint mux
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.rootHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/status", s.statusHandler)
	mux.HandleFunc("/info", s.infoHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start starts the server and blocks until it stops. It returns nil at
// once if Stop was already called.
func (s *Server) Start() error {
	log.Infof("🌐 Starting health server on port %d...", s.port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) info() AgentInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.agentInfo
}

// rootHandler handles the root endpoint
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	info := s.info()
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "Agent: %s v%s\n", info.Name, info.Version)
	fmt.Fprintf(w, "Ready: %v\n", s.statusGetter.IsReady())
	fmt.Fprintf(w, "Active Tasks: %d\n", s.statusGetter.GetActiveTaskCount())
	fmt.Fprintf(w, "Handled Tasks: %d\n", s.statusGetter.GetHandledTaskCount())
	fmt.Fprintf(w, "Capabilities: %s\n", strings.Join(info.Capabilities, ", "))
	fmt.Fprintf(w, "Uptime: %v\n", s.statusGetter.GetUptime())
	fmt.Fprintf(w, "\nEndpoints:\n")
	fmt.Fprintf(w, "  /health  - Health check\n")
	fmt.Fprintf(w, "  /status  - Detailed status (JSON)\n")
	fmt.Fprintf(w, "  /info    - Agent information (JSON)\n")
	fmt.Fprintf(w, "  /metrics - Prometheus metrics\n")
}

// healthHandler provides a simple health check
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "healthy"
	statusCode := http.StatusOK
	if !s.statusGetter.IsReady() {
		status = "starting"
		statusCode = http.StatusServiceUnavailable
	}
	w.WriteHeader(statusCode)

	health := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now(),
		"agent":     s.info().Name,
	}
	json.NewEncoder(w).Encode(health)
}

// statusHandler provides detailed status information
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	ready := s.statusGetter.IsReady()
	status := "operational"
	if !ready {
		status = "starting"
	}

	json.NewEncoder(w).Encode(HealthStatus{
		Status:       status,
		Ready:        ready,
		ActiveTasks:  s.statusGetter.GetActiveTaskCount(),
		HandledTasks: s.statusGetter.GetHandledTaskCount(),
		Uptime:       s.statusGetter.GetUptime().String(),
		Timestamp:    time.Now(),
		Agent:        s.info(),
	})
}

// infoHandler provides agent information
func (s *Server) infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(s.info())
}

// UpdateAgentInfo updates the agent information
func (s *Server) UpdateAgentInfo(info *AgentInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentInfo = info
}
