package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"today-i-learned/worker"
)

var (
	digestTop     int
	digestRender  bool
	digestSummary bool
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print a markdown digest of the most interesting facts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		s, err := newSession(cfg, logger)
		if err != nil {
			return err
		}
		defer s.close()

		b := &worker.DigestBuilder{
			Store:      s.store,
			Frequency:  cfg.Digest.Frequency,
			TopN:       cfg.Digest.TopN,
			Title:      cfg.Digest.Title,
			Preface:    cfg.Digest.Preface,
			Postscript: cfg.Digest.Postscript,
			Language:   cfg.Digest.Language,
			Log:        logger.Named("digest"),
		}
		if cmd.Flags().Changed("top") {
			b.TopN = digestTop
		}
		if digestSummary {
			assistant, err := newAssistant(cfg, logger)
			if err != nil {
				return err
			}
			b.Summarizer = assistant
		}
		md, err := b.Render(cmd.Context())
		if err != nil {
			return err
		}
		if digestRender {
			out, err := glamour.Render(md, "auto")
			if err != nil {
				return err
			}
			md = out
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	digestCmd.Flags().IntVarP(&digestTop, "top", "n", 10, "number of facts to include")
	digestCmd.Flags().BoolVar(&digestRender, "render", false, "render markdown for the terminal")
	digestCmd.Flags().BoolVar(&digestSummary, "summary", false, "add an AI-written intro (needs openai.api_key)")
	rootCmd.AddCommand(digestCmd)
}
