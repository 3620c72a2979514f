package web

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// selector matches an element by tag and, optionally, class.
type selector struct {
	tag   atom.Atom
	class string
}

// contentSelectors are tried in order until one yields enough words.
var contentSelectors = []selector{
	{tag: atom.Article},
	{tag: atom.Main},
	{tag: atom.Div, class: "post-content"},
	{tag: atom.Div, class: "content"},
	{tag: atom.Body},
}

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(`[ \t\f\r\v]+`)
)

// skipped elements never contribute text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
	atom.Head:     true,
}

// blocks are separated from their neighbours by a blank line.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true, atom.Main: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Ul: true, atom.Ol: true, atom.Pre: true, atom.Blockquote: true,
	atom.Table: true, atom.Tr: true, atom.Header: true, atom.Footer: true, atom.Aside: true,
	atom.Nav: true, atom.Figure: true, atom.Dl: true, atom.Dt: true, atom.Dd: true, atom.Hr: true,
}

// extractMain returns the text of the first selector whose element has more than
// minWords words. When none qualifies, the last matching element's text is returned.
func extractMain(doc *html.Node, minWords int) string {
	var text string
	for _, sel := range contentSelectors {
		el := findFirst(doc, sel)
		if el == nil {
			continue
		}
		text = textOf(el)
		if len(strings.Fields(text)) > minWords {
			break
		}
	}
	return text
}

// findFirst returns the first element in document order matching sel.
func findFirst(n *html.Node, sel selector) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == sel.tag && (sel.class == "" || hasClass(n, sel.class)) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, sel); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && slices.Contains(strings.Fields(a.Val), class) {
			return true
		}
	}
	return false
}

// textOf renders the visible text under n, one paragraph per block element.
func textOf(n *html.Node) string {
	var sb strings.Builder
	writeText(n, &sb, 0)
	return clean(sb.String())
}

func writeText(n *html.Node, sb *strings.Builder, depth int) {
	if depth > 256 {
		return
	}

	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			sb.WriteString("\n")
			return
		}
	}

	block := n.Type == html.ElementNode && blocks[n.DataAtom]
	if block {
		sb.WriteString("\n\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, sb, depth+1)
	}
	if block {
		sb.WriteString("\n\n")
	}
}

// clean collapses runs of spaces, trims every line and keeps at most one blank line between paragraphs.
func clean(s string) string {
	s = multiSpace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = multiNewline.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
