package fetch

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipElements are elements whose text is never article content.
var skipElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Template: true,
}

// blockElements end a run of inline text.
var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Br:         true,
	atom.Div:        true,
	atom.Li:         true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.Blockquote: true,
	atom.Tr:         true,
}

// HTMLToText flattens an HTML fragment to plain text. Whitespace is collapsed,
// paragraphs are separated by blank lines, and script and style content is
// dropped. Input that is not HTML comes back with its whitespace collapsed.
func HTMLToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpaces(s)
	}

	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return collapseSpaces(s)
	}

	var blocks []string
	var current strings.Builder
	flush := func() {
		if text := collapseSpaces(current.String()); text != "" {
			blocks = append(blocks, text)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			current.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipElements[n.DataAtom] {
				return
			}
			if blockElements[n.DataAtom] {
				flush()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.DataAtom] {
			flush()
		}
	}
	walk(root)
	flush()

	return strings.Join(blocks, "\n\n")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
