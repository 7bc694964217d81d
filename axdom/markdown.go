package axdom

import (
	"bytes"
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Markdown renders a subtree as markdown. Used by the page-text operation
// when the caller asks for format=markdown instead of plain text.
func Markdown(n *html.Node, sourceURL string) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("axdom: render: %w", err)
	}
	out, err := mdConverter.ConvertString(buf.String(), converter.WithDomain(sourceURL))
	if err != nil {
		return "", fmt.Errorf("axdom: markdown: %w", err)
	}
	return out, nil
}
