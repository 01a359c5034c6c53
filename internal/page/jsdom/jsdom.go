//go:build js && wasm
// +build js,wasm

// Package jsdom binds page.Page to the browser document through syscall/js.
package jsdom

import (
	"strings"
	"syscall/js"

	"fsfplink/internal/page"
)

// Page is the live browser document.
type Page struct {
	document js.Value
	window   js.Value
}

// New returns the page of the current window.
func New() *Page {
	return &Page{
		document: js.Global().Get("document"),
		window:   js.Global().Get("window"),
	}
}

func (p *Page) Body() page.Element { return &Element{v: p.document.Get("body")} }

func (p *Page) ElementByID(id string) (page.Element, bool) {
	return wrap(p.document.Call("getElementById", id))
}

func (p *Page) QuerySelector(selector string) (el page.Element, ok bool) {
	// querySelector throws on invalid selectors; treat that as a miss.
	defer func() {
		if recover() != nil {
			el, ok = nil, false
		}
	}()
	return wrap(p.document.Call("querySelector", selector))
}

func (p *Page) CreateElement(tag string) page.Element {
	return &Element{v: p.document.Call("createElement", tag)}
}

// Prompt blocks on window.prompt, which returns null when dismissed.
func (p *Page) Prompt(message string) (string, bool) {
	answer := p.window.Call("prompt", message)
	if answer.IsNull() || answer.IsUndefined() {
		return "", false
	}
	return answer.String(), true
}

func wrap(v js.Value) (page.Element, bool) {
	if v.IsNull() || v.IsUndefined() {
		return nil, false
	}
	return &Element{v: v}, true
}

// Element wraps a DOM element.
type Element struct {
	v js.Value
}

func (e *Element) ID() string  { return e.v.Get("id").String() }
func (e *Element) Tag() string { return strings.ToLower(e.v.Get("tagName").String()) }

func (e *Element) Content() string          { return e.v.Get("innerHTML").String() }
func (e *Element) SetContent(markup string) { e.v.Set("innerHTML", markup) }
func (e *Element) SetText(text string)      { e.v.Set("textContent", text) }

// Attribute reads the live value property for "value" so form inputs report
// what the user typed, and getAttribute for everything else.
func (e *Element) Attribute(name string) (string, bool) {
	if name == "value" {
		if v := e.v.Get("value"); v.Type() == js.TypeString {
			return v.String(), true
		}
	}
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e *Element) SetAttribute(name, value string) { e.v.Call("setAttribute", name, value) }
func (e *Element) RemoveAttribute(name string)     { e.v.Call("removeAttribute", name) }

func (e *Element) Style(prop string) string { return e.v.Get("style").Get(prop).String() }
func (e *Element) SetStyle(prop, value string) {
	e.v.Get("style").Set(prop, value)
}

func (e *Element) Append(child page.Element) {
	if c, ok := child.(*Element); ok {
		e.v.Call("appendChild", c.v)
	}
}

func (e *Element) OnClick(fn func()) func() {
	handler := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	})
	e.v.Call("addEventListener", "click", handler)
	released := false
	return func() {
		if released {
			return
		}
		released = true
		e.v.Call("removeEventListener", "click", handler)
		handler.Release()
	}
}

// Value exposes the underlying js.Value.
func (e *Element) Value() js.Value { return e.v }
