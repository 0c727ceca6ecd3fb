package export

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// pageStyle keeps the captured body flush and opaque
const pageStyle = "margin:0;padding:0;background:#ffffff;width:%dpx"

// freezeStyle stops animations and transitions in the capture tab. A fresh
// tab replays them from their first frame, which would be rasterized.
const freezeStyle = "<style>*,*::before,*::after{animation:none!important;transition:none!important}</style>"

// standaloneDocument serializes root inside a minimal document that carries
// the owning document's <head>, so stylesheet rules still apply to the copy.
// freezeStyle is appended last so it wins over the copied rules.
func standaloneDocument(root *html.Node, viewportWidth int) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html><html><head>")

	if head := findHead(root); head != nil {
		for c := head.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", fmt.Errorf("failed to render head: %w", err)
			}
		}
	} else {
		buf.WriteString(`<meta charset="utf-8">`)
	}
	buf.WriteString(freezeStyle)
	buf.WriteString("</head>")

	fmt.Fprintf(&buf, `<body style="`+pageStyle+`">`, viewportWidth)
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("failed to render report root: %w", err)
	}
	buf.WriteString("</body></html>")

	return buf.String(), nil
}

// findHead climbs to the document node and returns its <head> element.
func findHead(n *html.Node) *html.Node {
	top := n
	for top.Parent != nil {
		top = top.Parent
	}

	var head *html.Node
	var search func(*html.Node)
	search = func(n *html.Node) {
		if head != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Head {
			head = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			search(c)
		}
	}
	search(top)
	return head
}
