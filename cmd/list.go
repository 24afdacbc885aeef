package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"today-i-learned/internal/category"
	"today-i-learned/internal/factlist"
	"today-i-learned/internal/model"
)

var (
	listCategory string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the most interesting facts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(GetConfig(), logger)
		if err != nil {
			return err
		}
		defer s.close()

		if !s.registry.IsSelection(listCategory) {
			return &category.LookupError{Name: listCategory}
		}
		facts, err := s.fetchAll(cmd.Context())
		if err != nil {
			return err
		}
		visible := factlist.Visible(facts, listCategory)
		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(visible)
		}
		printFacts(cmd.OutOrStdout(), visible)
		fmt.Fprintf(cmd.OutOrStdout(), "\nThere are %d facts in the database. Add your own!\n", len(facts))
		return nil
	},
}

func printFacts(w io.Writer, facts []model.Fact) {
	if len(facts) == 0 {
		fmt.Fprintln(w, "No facts for this category yet! Create the first one ✌️")
		return
	}
	for _, f := range facts {
		disputed := ""
		if f.IsDisputed() {
			disputed = "[⛔️ DISPUTED] "
		}
		fmt.Fprintf(w, "%-4s %s%s (%s) #%s  👍 %d 🤯 %d ⛔️ %d\n",
			f.ID, disputed, f.Text, f.Source, f.Category,
			f.VotesInteresting, f.VotesMindblowing, f.VotesFalse)
	}
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", category.All, "only show facts of this category")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON instead of text")
	rootCmd.AddCommand(listCmd)
}

