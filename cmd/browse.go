package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"today-i-learned/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse, share and vote on facts in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(GetConfig(), logger)
		if err != nil {
			return err
		}
		defer s.close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		p := tea.NewProgram(tui.New(ctx, s.view), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			logger.Error("browse: program exited", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
