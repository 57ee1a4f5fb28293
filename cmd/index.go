package cmd

import (
	"fmt"

	"github.com/conneroisu/smartedit/internal/types"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:     "index <file>",
	Aliases: []string{"ls"},
	Short:   "List the editable components of an HTML document",
	Long: `Index an HTML document and list the components that edit requests can
target: every element with an id, plus the well-known page sections (header,
navigation, footer, hero, video gallery) even when they have no id.

Examples:
  smartedit index page.html              # Table of components
  smartedit index page.html -o json      # JSON array
  smartedit index page.html -o yaml      # YAML list`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

var indexFlags *StandardFlags

func init() {
	rootCmd.AddCommand(indexCmd)

	indexFlags = AddStandardFlags(indexCmd, "output")
	AddFlagValidation(indexCmd, "output", ValidateFormat("table", "json", "yaml"))
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	html, err := readDocument(args[0])
	if err != nil {
		return err
	}

	components := newSession(cfg, logger, html).Components().Sorted()

	if indexFlags.OutputFormat != "table" {
		return writeStructured(cmd.OutOrStdout(), indexFlags.OutputFormat, components)
	}

	renderComponentTable(cmd, components)
	return nil
}

func renderComponentTable(cmd *cobra.Command, components []types.Component) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: 48},
	})

	t.AppendHeader(table.Row{"ID", "Type", "Tag", "Selector", "Text"})
	for _, c := range components {
		id := c.ID
		if c.Synthesized {
			id += " *"
		}
		t.AppendRow(table.Row{id, c.Type.Label(), c.Tag, c.Selector, c.Text})
	}
	t.AppendFooter(table.Row{"Total", len(components), "", "", ""})
	t.Render()

	if !indexFlags.Quiet {
		for _, c := range components {
			if c.Synthesized {
				fmt.Fprintln(cmd.ErrOrStderr(), "* located by section, no id attribute in the document")
				break
			}
		}
	}
}
