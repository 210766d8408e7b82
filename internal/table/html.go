package table

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// DefaultClass is the CSS class that marks the admin table on a page.
const DefaultClass = "admin-table"

// ParseHTML reads a page and extracts the first <table> carrying class.
// Headers come from the <th> cells of the table's own rows, data rows from
// its <tbody><tr>, and cells from each row's <td> elements. Tables nested
// inside a cell contribute only to that cell's text.
func ParseHTML(r io.Reader, class string) (*Table, error) {
	if class == "" {
		class = DefaultClass
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	tables := findNodes(doc, func(n *html.Node) bool {
		return isElement(n, "table") && hasClass(n, class)
	})
	if len(tables) == 0 {
		return nil, ErrTableNotFound
	}
	root := tables[0]

	t := &Table{Rows: [][]string{}}
	for _, section := range children(root, "thead", "tbody", "tfoot") {
		for _, tr := range children(section, "tr") {
			for _, th := range children(tr, "th") {
				id := attr(th, "id")
				if id == "" {
					id = attr(th, "data-key")
				}
				if id == "" {
					id = NewHeaderID()
				}
				t.Headers = append(t.Headers, Header{ID: id, Label: collectText(th)})
			}
		}
	}

	for _, tbody := range children(root, "tbody") {
		for _, tr := range children(tbody, "tr") {
			cells := []string{}
			for _, td := range children(tr, "td") {
				cells = append(cells, collectText(td))
			}
			t.Rows = append(t.Rows, cells)
		}
	}

	return t, nil
}

// RenderHTML writes t as an admin table. Header IDs are kept in the id
// attribute so a rendered table parses back with the same identities.
func RenderHTML(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "<table class=%q>\n<thead>\n<tr>", DefaultClass)
	for _, h := range t.Headers {
		fmt.Fprintf(bw, "<th id=\"%s\">%s</th>", html.EscapeString(h.ID), html.EscapeString(h.Label))
	}
	bw.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, row := range t.Rows {
		bw.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(bw, "<td>%s</td>", html.EscapeString(cell))
		}
		bw.WriteString("</tr>\n")
	}
	bw.WriteString("</tbody>\n</table>\n")

	return bw.Flush()
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// children returns the element children of n whose tag is one of tags.
// The parser wraps bare <tr> elements in an implied <tbody>, so walking
// direct children never misses a row.
func children(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		for _, tag := range tags {
			if isElement(c, tag) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// breakingElements render on their own line, so their text never runs into
// the text around them.
var breakingElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "caption": true, "dd": true, "div": true, "dl": true,
	"dt": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true,
	"ul": true,
}

// collectText approximates innerText: adjacent text nodes join without a
// separator, block elements and cells break the line, and whitespace is
// collapsed.
func collectText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		brk := n.Type == html.ElementNode && breakingElements[n.Data]
		if brk {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if brk {
			b.WriteByte('\n')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func findNodes(node *html.Node, want func(*html.Node) bool) []*html.Node {
	var results []*html.Node
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if want(c) {
			results = append(results, c)
		}
		results = append(results, findNodes(c, want)...)
	}
	return results
}
