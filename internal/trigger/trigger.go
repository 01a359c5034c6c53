// Package trigger implements the page buttons that start a submission.
package trigger

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"fsfplink/internal/page"
	"fsfplink/internal/utils"
)

// State of a trigger. Busy triggers are disabled and ignore activation.
type State int32

const (
	Idle State = iota
	Busy
	IdleAfterResult
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	case IdleAfterResult:
		return "idle-after-result"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

const (
	// DefaultTextAttribute stores the original label on the button.
	DefaultTextAttribute = "defaultText"
	// IDAttribute carries the trigger id so pages can find their buttons.
	IDAttribute = "data-fsfpl-trigger"
)

// Handler runs when the trigger is activated.
type Handler func(t *Trigger)

type Trigger struct {
	id          string
	el          page.Element
	defaultText string
	state       atomic.Int32

	mu       sync.Mutex
	handlers map[int]Handler
	nextID   int
	unclick  func()
}

// New creates a button labelled text inside the element with id containerID.
func New(p page.Page, containerID, text string) (*Trigger, error) {
	container, ok := p.ElementByID(containerID)
	if !ok {
		return nil, &utils.ValidationError{
			Field:   "buttons",
			Message: fmt.Sprintf("button container %q not found", containerID),
		}
	}

	t := &Trigger{
		id:          "fsfpl-trigger-" + uuid.NewString(),
		el:          p.CreateElement("button"),
		defaultText: text,
		handlers:    make(map[int]Handler),
	}
	t.el.SetText(text)
	t.el.SetAttribute(DefaultTextAttribute, text)
	t.el.SetAttribute(IDAttribute, t.id)
	t.unclick = t.el.OnClick(func() { t.Activate() })
	container.Append(t.el)
	return t, nil
}

func (t *Trigger) ID() string             { return t.id }
func (t *Trigger) Element() page.Element  { return t.el }
func (t *Trigger) DefaultText() string    { return t.defaultText }
func (t *Trigger) State() State           { return State(t.state.Load()) }
func (t *Trigger) Label() string          { return t.el.Content() }
func (t *Trigger) SetLabel(text string)   { t.el.SetText(text) }
func (t *Trigger) ResetLabel()            { t.el.SetText(t.defaultText) }
func (t *Trigger) Disabled() bool         { _, ok := t.el.Attribute("disabled"); return ok }

// OnActivate registers h. The returned func unregisters it and may be called
// more than once.
func (t *Trigger) OnActivate(h Handler) (dispose func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.handlers[id] = h
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.handlers, id)
		t.mu.Unlock()
	}
}

// Activate runs the handlers in registration order unless the trigger is busy.
// It reports whether anything ran.
func (t *Trigger) Activate() bool {
	if t.State() == Busy {
		return false
	}
	t.mu.Lock()
	ids := make([]int, 0, len(t.handlers))
	for id := range t.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	hs := make([]Handler, len(ids))
	for i, id := range ids {
		hs[i] = t.handlers[id]
	}
	t.mu.Unlock()

	for _, h := range hs {
		h(t)
	}
	return len(hs) > 0
}

// Begin moves the trigger to Busy and disables the button. It returns false
// when the trigger already was busy, in which case nothing changes.
func (t *Trigger) Begin() bool {
	for {
		cur := t.state.Load()
		if State(cur) == Busy {
			return false
		}
		if t.state.CompareAndSwap(cur, int32(Busy)) {
			t.el.SetAttribute("disabled", "disabled")
			return true
		}
	}
}

// End re-enables the button whatever the outcome was.
func (t *Trigger) End() {
	t.el.RemoveAttribute("disabled")
	t.state.Store(int32(IdleAfterResult))
}

// Close drops the click listener and all handlers.
func (t *Trigger) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unclick != nil {
		t.unclick()
		t.unclick = nil
	}
	t.handlers = make(map[int]Handler)
}
