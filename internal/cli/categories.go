package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Category commands",
	}
	cmd.AddCommand(newCategoriesListCmd(a))
	cmd.AddCommand(newCategoriesCreateCmd(a))
	return cmd
}

func newCategoriesListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newController(a)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.LoadCategories(cmd.Context()); err != nil {
				return writeErr(cmd, describe(err))
			}
			return writeOut(cmd, a, map[string]any{"data": c.State().Store.Categories})
		},
	}
}

func newCategoriesCreateCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newController(a)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.CreateCategory(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, describe(err))
			}
			name := strings.TrimSpace(args[0])
			for _, cat := range c.State().Store.Categories {
				if cat.Name == name {
					return writeOut(cmd, a, map[string]any{"data": cat})
				}
			}
			return writeOut(cmd, a, map[string]any{"data": map[string]any{"name": name}})
		},
	}
}
