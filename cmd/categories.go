package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories a fact can belong to",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		for _, c := range reg.All() {
			swatch := lipgloss.NewStyle().Background(lipgloss.Color(c.Color)).Render("  ")
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %s\n", swatch, c.Name, c.Color)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
