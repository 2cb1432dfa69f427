package modules

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"northcheck/pkg/checker"
	"northcheck/pkg/config"
	"northcheck/pkg/render"
	"northcheck/pkg/version"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("failure already reported")

// App wires the cobra commands to config, the checker client and the
// output streams.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// HTTPClient overrides the transport used for remote checks. Its
	// timeout is forced to checker.Timeout when zero.
	HTTPClient *http.Client

	configFile string
	verbose    bool

	viper  *viper.Viper
	cfg    *config.Config
	client *checker.Client
	// reloadMu guards cfg against config watch callbacks in agent mode.
	reloadMu sync.Mutex
}

// NewApp returns an App writing results to stdout and failures to stderr.
func NewApp(stdout, stderr io.Writer) *App {
	return &App{Stdout: stdout, Stderr: stderr}
}

// Execute runs the command line and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := a.Command()
	root.SetArgs(args)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintf(a.Stderr, "❌ Error: %v\n", err)
		fmt.Fprintf(a.Stderr, "   Run '%s --help' for usage.\n", root.Name())
	}
	return 1
}

// Command builds the root command.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:     "northcheck",
		Short:   "CLI to check links and files for potential threats using NordVPN APIs",
		Long:    "NorthCheck submits URLs, local files or SHA-256 hashes to public reputation\nservices and prints a risk assessment. Also available as 'nc'.",
		Version: version.Version(),

		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging and show API error bodies")
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to a config file (default: northcheck.yaml in the user config dir or the working directory)")

	root.AddCommand(a.linkCommand(), a.fileCommand(), a.hashCommand(), a.agentCommand(), a.versionCommand())
	return root
}

func (a *App) setup() error {
	a.viper = config.New(a.configFile)
	cfg, err := config.Load(a.viper)
	if err != nil {
		return err
	}
	a.cfg = cfg
	config.ConfigureLogging(cfg.LogLevel, a.verbose, false)

	if a.HTTPClient != nil {
		a.client = checker.NewWithHTTPClient(cfg.Endpoints(), a.HTTPClient)
	} else {
		a.client = checker.New(cfg.Endpoints())
	}
	log.Debugf("link endpoint %s, file endpoint %s", cfg.LinkEndpoint, cfg.FileEndpoint)
	return nil
}

// report prints err once on stderr and returns errReported.
func (a *App) report(subject string, opts Options, err error) error {
	if err == nil {
		return nil
	}
	render.Failure(a.Stderr, err, subject, opts.ShowErrorBody())
	log.Debugf("%s check failed: %s", subject, errors.ErrorStack(err))
	return errReported
}

func (a *App) linkCommand() *cobra.Command {
	var opts Options
	cmd := &cobra.Command{
		Use:   "link <url>",
		Short: "Check a URL for potential threats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = a.verbose
			return a.report("link", opts, RunLink(cmd.Context(), a.client, args[0], a.Stdout, opts))
		},
	}
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output raw JSON response")
	return cmd
}

func (a *App) fileCommand() *cobra.Command {
	var opts Options
	var in FileInput
	cmd := &cobra.Command{
		Use:   "file <filePath>",
		Short: "Check a file for potential threats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = a.verbose
			in.HashPresent = cmd.Flags().Changed("hash")
			in.SizePresent = cmd.Flags().Changed("size")
			return a.report("file", opts, RunFile(cmd.Context(), a.client, args[0], in, a.Stdout, opts))
		},
	}
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output raw JSON response")
	cmd.Flags().StringVar(&in.Hash, "hash", "", "Use provided SHA256 hash instead of calculating from file")
	cmd.Flags().StringVar(&in.Size, "size", "", "File size in bytes (required when using --hash)")
	cmd.Flags().StringVar(&in.Name, "name", "", "File name (optional when using --hash)")
	return cmd
}

func (a *App) hashCommand() *cobra.Command {
	var opts Options
	var in HashInput
	cmd := &cobra.Command{
		Use:   "hash <sha256>",
		Short: "Check a SHA256 hash for potential threats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = a.verbose
			in.SizePresent = cmd.Flags().Changed("size")
			return a.report("hash", opts, RunHash(cmd.Context(), a.client, args[0], in, a.Stdout, opts))
		},
	}
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output raw JSON response")
	cmd.Flags().StringVar(&in.Size, "size", "", "File size in bytes")
	cmd.Flags().StringVar(&in.Name, "name", "", "File name")
	return cmd
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.Stdout, version.GetFullVersionString())
		},
	}
}
