// Package utility is the entry point for pages that collect the flight plan
// from their own markup instead of building a record up front.
package utility

import (
	"context"

	"fsfplink/internal/collector"
	"fsfplink/internal/plan"
	"fsfplink/internal/submit"
)

type Utility struct {
	deps      plan.Deps
	options   plan.Options
	collector *collector.Collector
}

// New keeps deps and options for every Send. Buttons in options are ignored:
// plans built by Send are transient.
func New(deps plan.Deps, options plan.Options) *Utility {
	options.Buttons = nil
	return &Utility{
		deps:      deps,
		options:   options,
		collector: collector.New(deps.Page, deps.Logger),
	}
}

// Collect reads a record from the page. Missing elements are logged and skipped.
func (u *Utility) Collect(m collector.Mapping) plan.Record {
	return u.collector.Collect(m)
}

// Send validates record and submits it. Only validation errors are returned
// as errors; network outcomes are in the Result.
func (u *Utility) Send(ctx context.Context, record plan.Record) (submit.Result, error) {
	p, err := plan.New(record, u.options, u.deps)
	if err != nil {
		return submit.Result{}, err
	}
	return p.Send(ctx, plan.SendOptions{}), nil
}
