// Package overlay shows submission feedback in a single modal per page.
package overlay

import (
	"sync"

	"fsfplink/internal/page"
)

// Overlay finds its surface by id on every call, so any number of Overlay
// values for the same page and namespace share one element.
type Overlay struct {
	mu        sync.Mutex
	page      page.Page
	namespace string
}

func New(p page.Page, namespace string) *Overlay {
	return &Overlay{page: p, namespace: namespace}
}

// ModalID is the id of the surface element.
func (o *Overlay) ModalID() string { return o.namespace + "-modal" }

// ContentID is the id of the slot holding the message.
func (o *Overlay) ContentID() string { return o.namespace + "-modal-content" }

// Show puts message in the surface, building it on first use, and makes it visible.
func (o *Overlay) Show(message string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	modal, ok := o.page.ElementByID(o.ModalID())
	if !ok {
		o.create(message)
		return
	}
	if content, ok := o.page.ElementByID(o.ContentID()); ok {
		content.SetContent(message)
	}
	modal.SetStyle("display", "block")
}

// Close hides the surface; the element stays in the page for reuse.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if modal, ok := o.page.ElementByID(o.ModalID()); ok {
		modal.SetStyle("display", "none")
	}
}

// Visible reports whether the surface exists and is not hidden.
func (o *Overlay) Visible() bool {
	modal, ok := o.page.ElementByID(o.ModalID())
	return ok && modal.Style("display") != "none"
}

// Message returns the current content of the surface.
func (o *Overlay) Message() string {
	if content, ok := o.page.ElementByID(o.ContentID()); ok {
		return content.Content()
	}
	return ""
}

func (o *Overlay) create(message string) {
	div := func(suffix string) page.Element {
		el := o.page.CreateElement("div")
		el.SetAttribute("id", o.namespace+suffix)
		return el
	}

	modal := div("-modal")
	wrapper := div("-modal-wrapper")
	buttonSlot := div("-modal-button")
	inside := div("-modal-inside")
	content := div("-modal-content")

	closeButton := o.page.CreateElement("button")
	closeButton.SetText("X")
	// Lives as long as the surface, which is never removed.
	closeButton.OnClick(o.Close)

	content.SetContent(message)
	buttonSlot.Append(closeButton)
	inside.Append(content)
	wrapper.Append(buttonSlot)
	wrapper.Append(inside)
	modal.Append(wrapper)
	modal.SetStyle("display", "block")
	o.page.Body().Append(modal)
}
