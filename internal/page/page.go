// Package page abstracts the host document the client renders into. The
// in-memory Document backs tests and the CLI; package jsdom binds the same
// interfaces to a real browser page under js/wasm.
package page

// Element is a node of the host document.
type Element interface {
	ID() string
	Tag() string
	// Content is the rendered markup (innerHTML).
	Content() string
	SetContent(html string)
	// SetText replaces the children with a single text node.
	SetText(text string)
	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	Style(prop string) string
	SetStyle(prop, value string)
	Append(child Element)
	// OnClick registers fn for click events. The returned func unregisters it.
	OnClick(fn func()) (dispose func())
}

// Page is the document plus the few window services the client needs.
type Page interface {
	Body() Element
	ElementByID(id string) (Element, bool)
	// QuerySelector returns the first element in document order matching selector.
	QuerySelector(selector string) (Element, bool)
	CreateElement(tag string) Element
	// Prompt asks the user for a line of input. ok is false when the user
	// dismissed the prompt.
	Prompt(message string) (answer string, ok bool)
}
