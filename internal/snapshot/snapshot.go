// Package snapshot captures, neutralizes and restores the visual style of a DOM
// subtree so it can be rasterized without gradients, glows or translucency.
package snapshot

import (
	"sync"

	"github.com/jonathan/profile-report/internal/logging"
	"golang.org/x/net/html"
)

// Property is one of the visual properties managed by a Snapshot
type Property string

// Managed properties, in capture order.
const (
	TextColor       Property = "color"
	BackgroundColor Property = "background-color"
	BoxShadow       Property = "box-shadow"
	BackgroundImage Property = "background-image"
	Filter          Property = "filter"
)

// Properties returns the managed property set.
func Properties() []Property {
	return []Property{TextColor, BackgroundColor, BoxShadow, BackgroundImage, Filter}
}

// NeutralValues are the print-safe values written by Begin
var NeutralValues = map[Property]string{
	TextColor:       "#000000",
	BackgroundColor: "#ffffff",
	BoxShadow:       "none",
	BackgroundImage: "none",
	Filter:          "none",
}

const styleAttr = "style"

// captured holds one property's inline value before neutralization
type captured struct {
	value string
	set   bool
}

type entry struct {
	node        *html.Node
	hadStyle    bool
	rawStyle    string
	values      map[Property]captured
	neutralized string
}

// Snapshot records the pre-export style of every element in a subtree.
// It must be released with End on every exit path.
type Snapshot struct {
	root    *html.Node
	entries []entry
	once    sync.Once
	skipped int
}

// Begin walks root and its descendant elements in document order, records
// their managed properties and overwrites them with NeutralValues.
func Begin(root *html.Node) *Snapshot {
	s := &Snapshot{root: root}
	if root == nil {
		return s
	}

	walk(root, func(n *html.Node) {
		raw, had := getAttr(n, styleAttr)
		decls := parseStyle(raw)

		e := entry{
			node:     n,
			hadStyle: had,
			rawStyle: raw,
			values:   make(map[Property]captured, len(NeutralValues)),
		}
		for _, prop := range Properties() {
			v, ok := decls.get(string(prop))
			e.values[prop] = captured{value: v, set: ok}
			decls = decls.set(string(prop), NeutralValues[prop])
		}
		e.neutralized = decls.String()
		setAttr(n, styleAttr, e.neutralized)

		s.entries = append(s.entries, e)
	})

	return s
}

// Len returns the number of captured elements.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Skipped returns how many captured elements End could not restore because
// they had been detached from the subtree.
func (s *Snapshot) Skipped() int {
	return s.skipped
}

// End restores every captured element to the values recorded by Begin.
// Elements whose style attribute is untouched since Begin get the original
// attribute back verbatim; elements mutated in between get the managed
// properties restored individually. Detached elements are skipped.
// Calling End more than once has no further effect.
func (s *Snapshot) End() {
	s.once.Do(s.restore)
}

func (s *Snapshot) restore() {
	for _, e := range s.entries {
		if !attached(e.node, s.root) {
			s.skipped++
			continue
		}

		current, _ := getAttr(e.node, styleAttr)
		if current == e.neutralized {
			if e.hadStyle {
				setAttr(e.node, styleAttr, e.rawStyle)
			} else {
				removeAttr(e.node, styleAttr)
			}
			continue
		}

		decls := parseStyle(current)
		for _, prop := range Properties() {
			c := e.values[prop]
			if c.set {
				decls = decls.set(string(prop), c.value)
			} else {
				decls = decls.remove(string(prop))
			}
		}
		if len(decls) == 0 && !e.hadStyle {
			removeAttr(e.node, styleAttr)
		} else {
			setAttr(e.node, styleAttr, decls.String())
		}
	}

	if s.skipped > 0 {
		logging.L().WithField("skipped", s.skipped).Warn("style restore skipped detached elements")
	}
}

// Do neutralizes root for the duration of fn. The original style is restored
// when fn returns, fails or panics.
func Do(root *html.Node, fn func() error) error {
	s := Begin(root)
	defer s.End()
	return fn()
}

// walk visits n and every descendant element in pre-order.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// attached reports whether n is still root or a descendant of root.
func attached(n, root *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}
