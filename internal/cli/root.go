package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"taskdeck/internal/api"
	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/format"
	"taskdeck/internal/logging"
	"taskdeck/internal/tui"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	Server     string
	PrettyJSON bool
	Format     string
	Verbose    bool
	DebugLog   string

	cfg *config.Config
	log *log.Logger

	shutdownTracing func(context.Context) error
}

func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:          "taskdeck",
		Short:        "Task manager client (TUI + scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskdeck

  # Scriptable commands
  taskdeck tasks list --category Work
  taskdeck tasks move 3 --onto 1

  # Direct task lookup (shortcut for: taskdeck tasks show <id>)
  taskdeck 12
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, a)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(a.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s (want one of %s)", a.Format, strings.Join(format.Formats, ", ")))
		}
		cfg, err := config.Load()
		if err != nil {
			return writeErr(cmd, err)
		}
		a.cfg = cfg
		a.log = logging.NewCLI(cmd.ErrOrStderr(), a.Verbose)
		if a.Verbose {
			a.shutdownTracing = logging.InstallTracing(a.log)
		}
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if a.shutdownTracing == nil {
			return nil
		}
		return a.shutdownTracing(cmd.Context())
	}

	cmd.PersistentFlags().StringVar(&a.Server, "server", "", "Task API base URL (default: $TASKDECK_SERVER, config, then "+config.DefaultServer+")")
	cmd.PersistentFlags().BoolVar(&a.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&a.Format, "format", envOr("TASKDECK_FORMAT", format.JSON), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Log requests and spans to stderr")
	cmd.Flags().StringVar(&a.DebugLog, "debug-log", envOr("TASKDECK_DEBUG_LOG", ""), "Append TUI logs (JSON lines) to this file")

	cmd.AddCommand(newTasksCmd(a))
	cmd.AddCommand(newCategoriesCmd(a))
	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newDocsCmd(a))

	return cmd
}

func runTUI(cmd *cobra.Command, a *App) error {
	logger, closeLog, err := logging.NewTUI(a.DebugLog)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeLog()

	client, err := newClient(a, logger)
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(tui.Options{
		Backend:   client,
		Log:       logger,
		ServerURL: client.BaseURL(),
		Mouse:     a.cfg.MouseEnabled(),
		Profile:   a.cfg.Profile(),
	})
}

func newClient(a *App, logger *log.Logger) (*api.Client, error) {
	server, err := a.cfg.ResolveServer(a.Server)
	if err != nil {
		return nil, err
	}
	return api.New(server,
		api.WithTimeout(a.cfg.Timeout()),
		api.WithLogger(logger),
		api.WithLenientReorder(a.cfg.LenientReorder),
	), nil
}

// newController returns a controller over the configured server. Request
// failures are logged to stderr as they happen.
func newController(a *App) (*app.Controller, error) {
	client, err := newClient(a, a.log)
	if err != nil {
		return nil, err
	}
	return app.NewController(client, a.log), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, a *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, a.Format, a.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
