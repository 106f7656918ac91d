package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/pinpoint/internal/tui"
	"github.com/Veraticus/pinpoint/internal/tui/themes"
)

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Verify addresses one at a time in a terminal UI",
		Args:    cobra.NoArgs,
		RunE:    runInteractive,
	}

	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().Int("history", 10, "recent verifications shown in the history view")

	return cmd
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	themeName, _ := cmd.Flags().GetString("theme")
	limit, _ := cmd.Flags().GetInt("history")

	a, err := newApp(ctx, appOptions{withStorage: true})
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []tui.Option{
		tui.WithVerifier(a.verifier),
		tui.WithTheme(themes.GetTheme(themeName)),
	}
	if history := a.history(); history != nil {
		opts = append(opts, tui.WithHistory(history, limit))
	}

	return tui.Run(ctx, opts...)
}
