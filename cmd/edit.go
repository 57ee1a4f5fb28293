package cmd

import (
	"fmt"

	"github.com/conneroisu/smartedit/internal/editor"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:     "edit <file> <request> [request...]",
	Aliases: []string{"e"},
	Short:   "Apply plain-language edit requests to an HTML document",
	Long: `Resolve each request against the document's components and apply it.
Requests are applied in order; each one sees the result of the previous one.
The edited document is printed to stdout unless --write or --out is given.

Examples:
  smartedit edit page.html "make the header bigger"
  smartedit edit page.html "make the hero red" "change button text to 'Join'" --write
  smartedit edit page.html "make the footer smaller" --out edited.html
  smartedit edit page.html "make the hero blue" -o json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEdit,
}

var (
	editFormat string
	editQuiet  bool
	editOut    string
	editWrite  bool
)

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVarP(&editFormat, "output", "o", "html", "Output format (html|json|yaml)")
	editCmd.Flags().BoolVarP(&editQuiet, "quiet", "q", false, "Suppress the per-request summary")
	AddFlagValidation(editCmd, "output", ValidateFormat("html", "json", "yaml"))

	editCmd.Flags().StringVar(&editOut, "out", "", "Write the edited document to this file")
	editCmd.Flags().BoolVarP(&editWrite, "write", "w", false, "Write the edited document back to the input file")
	editCmd.MarkFlagsMutuallyExclusive("out", "write")
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	html, err := readDocument(path)
	if err != nil {
		return err
	}

	session := newSession(cfg, logger, html)
	results := make([]editor.Result, 0, len(args)-1)
	for _, request := range args[1:] {
		result, err := session.Submit(cmd.Context(), request)
		if err != nil {
			return userError(err)
		}
		results = append(results, result)

		if !editQuiet {
			status := "updated"
			if !result.Changed {
				status = "unchanged"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%s)\n", status, result.Intent.TargetComponentID, result.Intent.Action)
		}
	}

	switch {
	case editWrite:
		if err := writeDocument(path, session.HTML()); err != nil {
			return err
		}
	case editOut != "":
		if err := writeDocument(editOut, session.HTML()); err != nil {
			return err
		}
	}

	if editFormat != "html" {
		return writeStructured(cmd.OutOrStdout(), editFormat, results)
	}
	if !editWrite && editOut == "" {
		fmt.Fprintln(cmd.OutOrStdout(), session.HTML())
	}
	return nil
}
