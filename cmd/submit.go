package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"today-i-learned/internal/markdown"
)

var (
	submitText     string
	submitSource   string
	submitCategory string
	submitFile     string
	submitSuggest  bool
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Share a new fact",
	Example: `  til submit --text "Octopuses have three hearts." --source https://example.com --category science
  til submit --file fact.md --suggest`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		s, err := newSession(cfg, logger)
		if err != nil {
			return err
		}
		defer s.close()

		f := s.view.Form()
		if submitFile != "" {
			ff, err := markdown.ParseFactFile(submitFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", submitFile, err)
			}
			f.Text, f.Source, f.Category = ff.Text, ff.Source, ff.Category
		}
		// Flags win over file contents.
		if cmd.Flags().Changed("text") {
			f.Text = submitText
		}
		if cmd.Flags().Changed("source") {
			f.Source = submitSource
		}
		if cmd.Flags().Changed("category") {
			f.Category = submitCategory
		}

		if f.Category == "" && submitSuggest {
			assistant, err := newAssistant(cfg, logger)
			if err != nil {
				return err
			}
			if assistant == nil {
				return errors.New("--suggest needs openai.api_key")
			}
			name, err := assistant.SuggestCategory(cmd.Context(), f.Text, s.registry)
			if err != nil {
				return err
			}
			logger.Info("category suggested", zap.String("category", name))
			fmt.Fprintf(cmd.ErrOrStderr(), "suggested category: %s\n", name)
			f.Category = name
		}

		pending, err := s.view.Submit()
		if err != nil {
			return err
		}
		if err := s.view.Persist(cmd.Context(), pending); err != nil {
			return err
		}
		// The list was never loaded, so the confirmed fact is its only entry.
		if facts := s.list.Facts(); len(facts) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "saved fact %s in #%s\n", facts[0].ID, facts[0].Category)
		}
		return nil
	},
}

func init() {
	submitCmd.Flags().StringVarP(&submitText, "text", "t", "", "the fact, at most 200 characters")
	submitCmd.Flags().StringVarP(&submitSource, "source", "s", "", "http(s) link backing the fact")
	submitCmd.Flags().StringVarP(&submitCategory, "category", "c", "", "category name")
	submitCmd.Flags().StringVarP(&submitFile, "file", "f", "", "markdown file with source/category frontmatter")
	submitCmd.Flags().BoolVar(&submitSuggest, "suggest", false, "ask the AI assistant for a category when none is given")
	rootCmd.AddCommand(submitCmd)
}
