package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"taskdeck/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.taskdeck/config.json",
	}
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigSetServerCmd(a))
	cmd.AddCommand(newConfigSetCmd(a))
	return cmd
}

func newConfigShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return writeErr(cmd, err)
			}
			server, err := a.cfg.ResolveServer(a.Server)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, a, map[string]any{
				"data": map[string]any{
					"path":           path,
					"server":         server,
					"serverSource":   serverSource(a),
					"timeoutSeconds": int(a.cfg.Timeout().Seconds()),
					"lenientReorder": a.cfg.LenientReorder,
					"tui": map[string]any{
						"profile": a.cfg.Profile(),
						"mouse":   a.cfg.MouseEnabled(),
					},
				},
			})
		},
	}
}

func serverSource(a *App) string {
	switch {
	case strings.TrimSpace(a.Server) != "":
		return "flag"
	case strings.TrimSpace(os.Getenv("TASKDECK_SERVER")) != "":
		return "env"
	case strings.TrimSpace(a.cfg.Server) != "":
		return "config"
	default:
		return "default"
	}
}

func newConfigSetServerCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-server <url>",
		Short: "Set the task API base URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := config.NormalizeServer(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			a.cfg.Server = server
			if err := config.Save(a.cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, a, map[string]any{"data": map[string]any{"server": server}})
		},
	}
}

func newConfigSetCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set timeoutSeconds, lenientReorder, tui.profile or tui.mouse",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, val := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			switch key {
			case "server":
				s, err := config.NormalizeServer(val)
				if err != nil {
					return writeErr(cmd, err)
				}
				a.cfg.Server = s
			case "timeoutSeconds":
				n, err := strconv.Atoi(val)
				if err != nil || n < 0 {
					return writeErr(cmd, fmt.Errorf("invalid timeoutSeconds: %q", val))
				}
				a.cfg.TimeoutSeconds = n
			case "lenientReorder":
				b, err := strconv.ParseBool(val)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("invalid lenientReorder: %q", val))
				}
				a.cfg.LenientReorder = b
			case "tui.profile":
				if val != "" && val != "default" && val != "mono" {
					return writeErr(cmd, fmt.Errorf("invalid tui.profile: %q (want default|mono)", val))
				}
				if a.cfg.TUI == nil {
					a.cfg.TUI = &config.TUIConfig{}
				}
				a.cfg.TUI.Profile = val
			case "tui.mouse":
				b, err := strconv.ParseBool(val)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("invalid tui.mouse: %q", val))
				}
				if a.cfg.TUI == nil {
					a.cfg.TUI = &config.TUIConfig{}
				}
				a.cfg.TUI.Mouse = &b
			default:
				return writeErr(cmd, fmt.Errorf("unknown config key: %s", key))
			}
			if err := config.Save(a.cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, a, map[string]any{"data": map[string]any{key: val}})
		},
	}
}
