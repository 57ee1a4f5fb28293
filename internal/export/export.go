// Package export converts edited documents to other formats.
package export

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/conneroisu/smartedit/internal/errors"
)

// Exporter renders HTML documents as Markdown.
type Exporter struct {
	md *converter.Converter
}

// New creates an Exporter with CommonMark and table support.
func New() *Exporter {
	return &Exporter{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Markdown converts html to Markdown. Relative links are resolved against
// domain when it is not empty.
func (e *Exporter) Markdown(html, domain string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	out, err := e.md.ConvertString(html, converter.WithDomain(domain))
	if err != nil {
		return "", errors.NewParseError(err)
	}
	return strings.TrimSpace(out), nil
}
