// Package plan holds a validated flight plan together with the page
// buttons that submit it.
package plan

import (
	"context"

	"go.uber.org/zap"

	"fsfplink/internal/overlay"
	"fsfplink/internal/page"
	"fsfplink/internal/submit"
	"fsfplink/internal/trigger"
	"fsfplink/internal/utils"
)

// RequiredFields must be present in every flight plan.
var RequiredFields = []string{"departure", "destination", "callsign", "route"}

// Record is a flat flight plan; fields beyond RequiredFields are passed through.
type Record map[string]any

// Validate returns a *utils.ValidationError for the first missing required field.
func Validate(r Record) error {
	for _, field := range RequiredFields {
		if _, ok := r[field]; !ok {
			return utils.Missing(field)
		}
	}
	return nil
}

func (r Record) clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ButtonSpec asks for a submit button labelled Text inside the element with id To.
type ButtonSpec struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

type Options struct {
	Buttons []ButtonSpec `json:"buttons"`
	// Secondary is an optional second plan; the desktop fills the primary's
	// alternate from its destination.
	Secondary Record `json:"secondary"`
}

// Deps are the page-wide services a Plan works with. Build them once per page.
type Deps struct {
	Page     page.Page
	Overlay  *overlay.Overlay
	Workflow *submit.Workflow
	Logger   *utils.Logger
	// Dispatch runs a button's submission. Nil runs it inline; in the browser
	// it must not block the event loop.
	Dispatch func(func())
}

// SendOptions for Plan.Send. Caller is the button to keep disabled meanwhile.
type SendOptions struct {
	Caller *trigger.Trigger
}

type Plan struct {
	record    Record
	secondary Record
	deps      Deps
	buttons   []*trigger.Trigger
}

// New validates record (and opts.Secondary) and creates the requested buttons.
func New(record Record, opts Options, deps Deps) (*Plan, error) {
	if err := Validate(record); err != nil {
		return nil, err
	}
	if opts.Secondary != nil {
		if err := Validate(opts.Secondary); err != nil {
			return nil, err
		}
	}
	if deps.Logger == nil {
		deps.Logger = utils.NewNopLogger()
	}
	if deps.Dispatch == nil {
		deps.Dispatch = func(fn func()) { fn() }
	}

	p := &Plan{
		record:    record.clone(),
		secondary: opts.Secondary.clone(),
		deps:      deps,
	}
	for _, spec := range opts.Buttons {
		if err := p.createButton(spec); err != nil {
			p.Close()
			return nil, err
		}
	}
	deps.Logger.Info("FSFPL Flight Plan Ready.", zap.Any("callsign", record["callsign"]), zap.Int("buttons", len(p.buttons)))
	return p, nil
}

func (p *Plan) createButton(spec ButtonSpec) error {
	t, err := trigger.New(p.deps.Page, spec.To, spec.Text)
	if err != nil {
		return err
	}
	t.OnActivate(func(t *trigger.Trigger) {
		p.deps.Dispatch(func() {
			p.Send(context.Background(), SendOptions{Caller: t})
		})
	})
	p.buttons = append(p.buttons, t)
	return nil
}

// Send submits the plan through the page workflow.
func (p *Plan) Send(ctx context.Context, opts SendOptions) submit.Result {
	req := submit.Request{Plan: p.record.clone(), Secondary: p.secondary.clone()}
	if opts.Caller != nil {
		req.Caller = opts.Caller
	}
	return p.deps.Workflow.Submit(ctx, req)
}

// Record returns a copy of the plan.
func (p *Plan) Record() Record { return p.record.clone() }

// Buttons returns the plan's triggers in creation order.
func (p *Plan) Buttons() []*trigger.Trigger {
	return append([]*trigger.Trigger(nil), p.buttons...)
}

// Modal shows content in the page overlay.
func (p *Plan) Modal(content string) { p.deps.Overlay.Show(content) }

// CloseModal hides the page overlay.
func (p *Plan) CloseModal() { p.deps.Overlay.Close() }

// ResetButtonTexts restores every button's original label.
func (p *Plan) ResetButtonTexts() {
	for _, b := range p.buttons {
		b.ResetLabel()
	}
}

// PrintToButtons writes text into every button label.
func (p *Plan) PrintToButtons(text string) {
	for _, b := range p.buttons {
		b.SetLabel(text)
	}
}

// Close detaches the plan from its buttons; they stop submitting.
func (p *Plan) Close() {
	for _, b := range p.buttons {
		b.Close()
	}
}
