package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"today-i-learned/internal/model"
)

var voteCmd = &cobra.Command{
	Use:       "vote <id> interesting|mindblowing|false",
	Short:     "Vote on a fact",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"interesting", "mindblowing", "false"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseVoteKind(args[1])
		if err != nil {
			return err
		}
		s, err := newSession(GetConfig(), logger)
		if err != nil {
			return err
		}
		defer s.close()

		f, err := s.store.Vote(cmd.Context(), model.FactID(args[0]), kind)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  👍 %d 🤯 %d ⛔️ %d\n", f.ID, f.VotesInteresting, f.VotesMindblowing, f.VotesFalse)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(voteCmd)
}
