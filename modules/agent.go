package modules

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/TeneoProtocolAI/teneo-agent-sdk/pkg/agent"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"northcheck/pkg/checker"
	"northcheck/pkg/config"
	"northcheck/pkg/fault"
	"northcheck/pkg/health"
	"northcheck/pkg/metrics"
	"northcheck/pkg/render"
	"northcheck/pkg/validate"
	"northcheck/pkg/version"
)

const agentUsage = "Available commands: link <url>, hash <sha256> [size] [name], help"

// agentCapabilities are advertised to the Teneo network.
var agentCapabilities = []string{"url-reputation-check", "file-hash-reputation-check", "risk-level-scoring"}

// ReputationAgent answers link and hash tasks from the Teneo network. Each
// task runs exactly one check, like a CLI invocation.
type ReputationAgent struct {
	client  *checker.Client
	started time.Time
	ready   atomic.Bool
	active  atomic.Int64
	handled atomic.Int64
}

// NewReputationAgent returns an agent that checks through client.
func NewReputationAgent(client *checker.Client) *ReputationAgent {
	return &ReputationAgent{client: client, started: time.Now()}
}

// ProcessTask handles one task such as "link https://example.com" or
// "/hash <sha256> 1024 setup.exe".
func (a *ReputationAgent) ProcessTask(ctx context.Context, task string) (string, error) {
	taskID := uuid.NewString()
	logger := log.WithField("task_id", taskID)
	logger.Infof("Processing task: %s", task)

	a.active.Add(1)
	defer a.active.Add(-1)
	defer a.handled.Add(1)

	task = strings.TrimSpace(task)
	task = strings.TrimPrefix(task, "/")
	parts := strings.Fields(task)
	if len(parts) == 0 {
		return "No command provided. " + agentUsage, nil
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var reply string
	var err error
	switch cmd {
	case "link":
		if len(args) != 1 {
			return "Usage: link <url>", nil
		}
		reply, err = a.check(ctx, checker.NewURLCheck(args[0]))
	case "hash":
		if len(args) == 0 || len(args) > 3 {
			return "Usage: hash <sha256> [size] [name]", nil
		}
		reply, err = a.checkHash(ctx, args)
	case "file":
		return "The file command is not available in agent mode; compute the SHA256 locally and use: hash <sha256> [size] [name]", nil
	case "help":
		return agentUsage, nil
	default:
		return fmt.Sprintf("Unknown command '%s'. %s", cmd, agentUsage), nil
	}

	outcome := "ok"
	if err != nil {
		outcome = fault.KindOf(err).String()
		logger.Warnf("%s task failed: %v", cmd, err)
	}
	metrics.RecordAgentTask(cmd, outcome)

	if err != nil && fault.Is(err, fault.Validation) {
		var buf bytes.Buffer
		render.Failure(&buf, err, cmd, false)
		return strings.TrimSpace(buf.String()), nil
	}
	return reply, err
}

func (a *ReputationAgent) checkHash(ctx context.Context, args []string) (string, error) {
	if err := validate.CheckHash(args[0]); err != nil {
		return "", err
	}
	var size int64
	var name string
	if len(args) > 1 {
		n, err := validate.Size(args[1])
		if err != nil {
			return "", err
		}
		size = n
	}
	if len(args) > 2 {
		name = args[2]
	}
	req, err := checker.NewFileCheck(args[0], size, name)
	if err != nil {
		return "", err
	}
	return a.check(ctx, req)
}

func (a *ReputationAgent) check(ctx context.Context, req checker.Request) (string, error) {
	raw, err := a.client.Check(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(render.SummaryText(raw)), nil
}

// IsReady reports whether the agent finished starting.
func (a *ReputationAgent) IsReady() bool { return a.ready.Load() }

// GetActiveTaskCount returns the number of tasks in progress.
func (a *ReputationAgent) GetActiveTaskCount() int { return int(a.active.Load()) }

// GetHandledTaskCount returns the number of tasks processed so far.
func (a *ReputationAgent) GetHandledTaskCount() int64 { return a.handled.Load() }

// GetUptime returns the time since the agent was created.
func (a *ReputationAgent) GetUptime() time.Duration { return time.Since(a.started) }

func (a *App) agentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Run as a Teneo network agent answering link and hash checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAgent(cmd.Context())
		},
	}
}

func (a *App) runAgent(ctx context.Context) error {
	config.ConfigureLogging(a.cfg.LogLevel, a.verbose, true)
	if log.GetLevel() < log.InfoLevel {
		log.SetLevel(log.InfoLevel)
	}
	if a.cfg.Agent.PrivateKey == "" {
		return a.report("agent", Options{}, fault.Validationf("agent private key is not configured (set PRIVATE_KEY or agent.private_key)"))
	}

	handler := NewReputationAgent(a.client)

	teneoConfig := agent.DefaultConfig()
	teneoConfig.Name = a.cfg.Agent.Name
	teneoConfig.Description = a.cfg.Agent.Description
	teneoConfig.Capabilities = agentCapabilities
	teneoConfig.PrivateKey = a.cfg.Agent.PrivateKey
	teneoConfig.NFTTokenID = a.cfg.Agent.NFTTokenID
	teneoConfig.OwnerAddress = a.cfg.Agent.OwnerAddress
	teneoConfig.RateLimitPerMinute = a.cfg.Agent.RateLimitPerMinute

	enhancedAgent, err := agent.NewEnhancedAgent(&agent.EnhancedAgentConfig{
		Config:       teneoConfig,
		AgentHandler: handler,
	})
	if err != nil {
		return a.report("agent", Options{}, fault.Wrap(fault.Unexpected, err))
	}

	info := a.agentInfo()
	healthServer := health.NewServer(a.cfg.Agent.HealthPort, &info, handler)
	go func() {
		if err := healthServer.Start(); err != nil {
			log.Errorf("health server error: %v", err)
		}
	}()

	if config.Watch(a.viper, func(cfg *config.Config, e fsnotify.Event) {
		log.Infof("config file %s changed (%s), applying endpoints", e.Name, e.Op)
		a.applyReload(cfg, healthServer)
	}) {
		log.Infof("watching config file %s", a.viper.ConfigFileUsed())
	}

	log.Infof("Starting %s...", teneoConfig.Name)
	go enhancedAgent.Run()
	handler.ready.Store(true)

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return healthServer.Stop(shutdownCtx)
}

// applyReload points subsequent tasks at the endpoints of a reloaded
// config and refreshes the advertised agent info. Empty endpoints keep
// their current value.
func (a *App) applyReload(cfg *config.Config, healthServer *health.Server) {
	a.reloadMu.Lock()
	if cfg.LinkEndpoint != "" {
		a.cfg.LinkEndpoint = cfg.LinkEndpoint
	}
	if cfg.FileEndpoint != "" {
		a.cfg.FileEndpoint = cfg.FileEndpoint
	}
	a.client.SetEndpoints(a.cfg.Endpoints())
	info := a.agentInfo()
	a.reloadMu.Unlock()

	healthServer.UpdateAgentInfo(&info)
}

func (a *App) agentInfo() health.AgentInfo {
	return health.AgentInfo{
		Name:         a.cfg.Agent.Name,
		Version:      version.Version(),
		Description:  a.cfg.Agent.Description,
		Capabilities: agentCapabilities,
		LinkEndpoint: a.cfg.LinkEndpoint,
		FileEndpoint: a.cfg.FileEndpoint,
	}
}
