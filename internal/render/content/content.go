package content

import (
	"html"
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
)

// Lines renders status HTML as wrapped plain-text lines. Paragraphs are
// separated by a blank line.
func Lines(raw string, width int) []string {
	paragraphs := Paragraphs(raw)
	if len(paragraphs) == 0 {
		return nil
	}
	out := make([]string, 0, len(paragraphs)*2)
	for i, p := range paragraphs {
		if i > 0 {
			out = append(out, "")
		}
		for _, line := range strings.Split(p, "\n") {
			out = append(out, Wrap(line, width)...)
		}
	}
	return out
}

// PlainText flattens status HTML into a single space-joined string.
func PlainText(raw string) string {
	paragraphs := Paragraphs(raw)
	for i, p := range paragraphs {
		paragraphs[i] = strings.Join(strings.Fields(p), " ")
	}
	return strings.Join(paragraphs, " ")
}

// Paragraphs splits status HTML into paragraphs, keeping <br> as newlines.
// Mastodon's shortened-link markup is honoured: "invisible" spans are
// dropped and "ellipsis" spans get a trailing ellipsis.
func Paragraphs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return []string{strings.TrimSpace(html.UnescapeString(raw))}
	}
	body := findBody(doc)
	if body == nil {
		return []string{strings.TrimSpace(html.UnescapeString(raw))}
	}

	var paragraphs []string
	var current strings.Builder
	flush := func() {
		text := strings.TrimSpace(current.String())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		switch n.Type {
		case nethtml.TextNode:
			current.WriteString(collapseSpace(n.Data))
			return
		case nethtml.ElementNode:
			switch n.Data {
			case "br":
				current.WriteString("\n")
				return
			case "p", "blockquote", "li", "pre":
				flush()
				walkChildren(n, walk)
				flush()
				return
			case "span":
				if hasClass(n, "invisible") {
					return
				}
				walkChildren(n, walk)
				if hasClass(n, "ellipsis") {
					current.WriteString("…")
				}
				return
			}
		}
		walkChildren(n, walk)
	}
	walkChildren(body, walk)
	flush()
	return paragraphs
}

// Wrap breaks text on word boundaries so no line exceeds width runes.
// Words longer than width are kept whole.
func Wrap(text string, width int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{""}
	}
	if width <= 0 {
		return []string{text}
	}
	words := strings.Fields(text)
	lines := make([]string, 0, 4)
	var line strings.Builder
	lineLen := 0
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if lineLen > 0 && lineLen+1+wordLen > width {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
		if lineLen > 0 {
			line.WriteByte(' ')
			lineLen++
		}
		line.WriteString(word)
		lineLen += wordLen
	}
	if lineLen > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func walkChildren(n *nethtml.Node, fn func(*nethtml.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fn(c)
	}
}

func findBody(n *nethtml.Node) *nethtml.Node {
	if n.Type == nethtml.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *nethtml.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if len(fields) == 0 {
		return " "
	}
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
