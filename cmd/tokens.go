package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Show the configured design tokens",
	Long: `Print the design tokens shown next to documents in the preview page.
Tokens come from the tokens section of .smartedit.yml or SMARTEDIT_TOKENS_*
environment variables.

Examples:
  smartedit tokens
  smartedit tokens -o json`,
	Args: cobra.NoArgs,
	RunE: runTokens,
}

var tokensFlags *StandardFlags

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensFlags = AddStandardFlags(tokensCmd, "output")
	AddFlagValidation(tokensCmd, "output", ValidateFormat("table", "json", "yaml"))
}

func runTokens(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if tokensFlags.OutputFormat != "table" {
		return writeStructured(cmd.OutOrStdout(), tokensFlags.OutputFormat, cfg.Tokens)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Token", "Value"})
	t.AppendRows([]table.Row{
		{"primary_color", cfg.Tokens.PrimaryColor},
		{"font_family", cfg.Tokens.FontFamily},
		{"font_size_base", cfg.Tokens.FontSizeBase},
		{"spacing", cfg.Tokens.Spacing},
	})
	t.Render()
	return nil
}
