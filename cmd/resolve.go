package cmd

import (
	"fmt"
	"sort"

	"github.com/conneroisu/smartedit/internal/types"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <request>",
	Short: "Show how a request would be interpreted without applying it",
	Long: `Resolve a plain-language request against a document's components and
print the target component, the action and the updates it would make.

Examples:
  smartedit resolve "make the header bigger" -f page.html
  smartedit resolve "change button text to 'Join'" -f page.html -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

var (
	resolveFlags *StandardFlags
	resolveFile  string
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveFlags = AddStandardFlags(resolveCmd, "output")
	AddFlagValidation(resolveCmd, "output", ValidateFormat("table", "json", "yaml"))

	resolveCmd.Flags().StringVarP(&resolveFile, "file", "f", "", "HTML document to resolve against")
	_ = resolveCmd.MarkFlagRequired("file")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	html, err := readDocument(resolveFile)
	if err != nil {
		return err
	}

	editIntent, err := newSession(cfg, logger, html).Resolve(args[0])
	if err != nil {
		return userError(err)
	}

	if resolveFlags.OutputFormat != "table" {
		return writeStructured(cmd.OutOrStdout(), resolveFlags.OutputFormat, editIntent)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendRow(table.Row{"Target", editIntent.TargetComponentID})
	t.AppendRow(table.Row{"Action", editIntent.Action})
	for _, line := range describeUpdates(editIntent.Updates) {
		t.AppendRow(table.Row{line[0], line[1]})
	}
	t.Render()
	return nil
}

// describeUpdates lists the updates as label/value pairs in a stable order.
func describeUpdates(u types.Updates) [][2]string {
	var out [][2]string
	if u.AddClass != "" {
		out = append(out, [2]string{"Add class", u.AddClass})
	}
	if u.RemoveClass != "" {
		out = append(out, [2]string{"Remove class", u.RemoveClass})
	}
	for _, k := range sortedKeys(u.Style) {
		out = append(out, [2]string{"Style", fmt.Sprintf("%s: %s", k, u.Style[k])})
	}
	if u.Content != nil {
		out = append(out, [2]string{"Content", *u.Content})
	}
	for _, k := range sortedKeys(u.Attributes) {
		out = append(out, [2]string{"Attribute", fmt.Sprintf("%s=%q", k, u.Attributes[k])})
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
