package cmd

import (
	"fmt"
	"os"

	"github.com/conneroisu/smartedit/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Convert an HTML document to Markdown",
	Long: `Convert an HTML document, typically one produced by smartedit edit, to
Markdown. Styles and classes are dropped; headings, lists, links and tables
are kept.

Examples:
  smartedit export page.html
  smartedit export page.html --out page.md --domain https://example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportOut    string
	exportDomain string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write Markdown to this file instead of stdout")
	exportCmd.Flags().StringVar(&exportDomain, "domain", "", "Resolve relative links against this base URL")
}

func runExport(cmd *cobra.Command, args []string) error {
	html, err := readDocument(args[0])
	if err != nil {
		return err
	}

	md, err := export.New().Markdown(html, exportDomain)
	if err != nil {
		return err
	}

	if exportOut != "" {
		if err := os.WriteFile(exportOut, []byte(md+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), md)
	return nil
}
