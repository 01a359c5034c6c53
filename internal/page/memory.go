package page

import (
	"html"
	"sort"
	"strings"
	"sync"
)

// Document is an in-memory page. It is safe for concurrent use.
type Document struct {
	mu   sync.RWMutex
	body *Node

	// Prompter answers Prompt calls. A nil Prompter behaves like a user
	// dismissing every prompt.
	Prompter func(message string) (string, bool)
}

// Node is a Document element. Text nodes have tag "#text".
type Node struct {
	doc      *Document
	tag      string
	text     string
	raw      *string
	attrs    map[string]string
	order    []string
	style    map[string]string
	parent   *Node
	children []*Node
	handlers map[int]func()
	nextID   int
}

// NewDocument returns an empty document with a body.
func NewDocument() *Document {
	d := &Document{}
	d.body = d.newNode("body")
	return d
}

func (d *Document) newNode(tag string) *Node {
	return &Node{
		doc:      d,
		tag:      strings.ToLower(tag),
		attrs:    make(map[string]string),
		style:    make(map[string]string),
		handlers: make(map[int]func()),
	}
}

func (d *Document) Body() Element { return d.body }

func (d *Document) CreateElement(tag string) Element { return d.newNode(tag) }

func (d *Document) ElementByID(id string) (Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var found *Node
	d.body.walk(func(n *Node) bool {
		if n.attrs["id"] == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return found, true
}

// QuerySelector returns false for unparsable selectors as well as misses.
func (d *Document) QuerySelector(s string) (Element, bool) {
	all := d.QuerySelectorAll(s)
	if len(all) == 0 {
		return nil, false
	}
	return all[0], true
}

// QuerySelectorAll returns every match in document order.
func (d *Document) QuerySelectorAll(s string) []*Node {
	sel, err := parseSelector(s)
	if err != nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Node
	d.body.walk(func(n *Node) bool {
		if n.tag != "#text" && sel.matches(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (d *Document) Prompt(message string) (string, bool) {
	if d.Prompter == nil {
		return "", false
	}
	return d.Prompter(message)
}

// walk visits n and its descendants depth first until fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

func (n *Node) ID() string {
	v, _ := n.Attribute("id")
	return v
}

func (n *Node) Tag() string { return n.tag }

func (n *Node) Content() string {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	return n.inner()
}

func (n *Node) inner() string {
	if n.raw != nil {
		return *n.raw
	}
	var b strings.Builder
	for _, c := range n.children {
		c.render(&b)
	}
	return b.String()
}

func (n *Node) render(b *strings.Builder) {
	if n.tag == "#text" {
		b.WriteString(html.EscapeString(n.text))
		return
	}
	b.WriteString("<" + n.tag)
	for _, k := range n.order {
		b.WriteString(" " + k + `="` + html.EscapeString(n.attrs[k]) + `"`)
	}
	if len(n.style) > 0 {
		b.WriteString(` style="` + html.EscapeString(n.styleString()) + `"`)
	}
	b.WriteString(">" + n.inner() + "</" + n.tag + ">")
}

func (n *Node) styleString() string {
	props := make([]string, 0, len(n.style))
	for k := range n.style {
		props = append(props, k)
	}
	sort.Strings(props)
	parts := make([]string, len(props))
	for i, k := range props {
		parts[i] = k + ": " + n.style[k]
	}
	return strings.Join(parts, "; ")
}

// SetContent stores markup verbatim; it is not parsed into child nodes.
func (n *Node) SetContent(markup string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.detachChildren()
	n.raw = &markup
}

func (n *Node) SetText(text string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.detachChildren()
	n.raw = nil
	t := n.doc.newNode("#text")
	t.text = text
	t.parent = n
	n.children = []*Node{t}
}

// Text is the concatenated text of n's subtree, or its raw markup when set.
func (n *Node) Text() string {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	if n.raw != nil {
		return *n.raw
	}
	var b strings.Builder
	n.walk(func(c *Node) bool {
		if c.tag == "#text" {
			b.WriteString(c.text)
		}
		return true
	})
	return b.String()
}

func (n *Node) detachChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

func (n *Node) Attribute(name string) (string, bool) {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	v, ok := n.attrs[name]
	return v, ok
}

func (n *Node) SetAttribute(name, value string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if _, ok := n.attrs[name]; !ok {
		n.order = append(n.order, name)
	}
	n.attrs[name] = value
}

func (n *Node) RemoveAttribute(name string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if _, ok := n.attrs[name]; !ok {
		return
	}
	delete(n.attrs, name)
	for i, k := range n.order {
		if k == name {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

func (n *Node) Style(prop string) string {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	return n.style[prop]
}

func (n *Node) SetStyle(prop, value string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if value == "" {
		delete(n.style, prop)
		return
	}
	n.style[prop] = value
}

// Append moves child under n. Elements from another Page are ignored.
func (n *Node) Append(child Element) {
	c, ok := child.(*Node)
	if !ok || c.doc != n.doc {
		return
	}
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if c.parent != nil {
		siblings := c.parent.children
		for i, s := range siblings {
			if s == c {
				c.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	n.raw = nil
	c.parent = n
	n.children = append(n.children, c)
}

// Children returns a snapshot of n's element children.
func (n *Node) Children() []*Node {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if c.tag != "#text" {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) OnClick(fn func()) func() {
	n.doc.mu.Lock()
	id := n.nextID
	n.nextID++
	n.handlers[id] = fn
	n.doc.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.doc.mu.Lock()
			delete(n.handlers, id)
			n.doc.mu.Unlock()
		})
	}
}

// Click dispatches a click like a browser would: disabled elements swallow
// it. It reports whether any handler ran.
func (n *Node) Click() bool {
	n.doc.mu.RLock()
	if _, disabled := n.attrs["disabled"]; disabled {
		n.doc.mu.RUnlock()
		return false
	}
	ids := make([]int, 0, len(n.handlers))
	for id := range n.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), len(ids))
	for i, id := range ids {
		fns[i] = n.handlers[id]
	}
	n.doc.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns) > 0
}
