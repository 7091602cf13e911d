package cli

import (
	"fmt"

	"taskdeck/internal/docs"

	"github.com/spf13/cobra"
)

func newDocsCmd(a *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, a, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `taskdeck docs` to list topics)", topic))
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, a, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	return cmd
}
