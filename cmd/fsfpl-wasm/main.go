//go:build js && wasm
// +build js,wasm

package main

import (
	"context"
	"syscall/js"

	"go.uber.org/zap"

	"fsfplink/internal"
	"fsfplink/internal/api"
	"fsfplink/internal/collector"
	"fsfplink/internal/credential"
	"fsfplink/internal/overlay"
	"fsfplink/internal/page/jsdom"
	"fsfplink/internal/plan"
	"fsfplink/internal/submit"
	"fsfplink/internal/utility"
	"fsfplink/internal/utils"
)

var (
	logger *utils.Logger
	deps   plan.Deps
)

// main wires the page-wide services once and exposes window.fsl.
func main() {
	cfg := internal.LoadConfigFrom("")
	logger = utils.NewConsoleLogger(cfg.Debug)

	doc := jsdom.New()
	store := credential.NewStore(jsdom.NewCookieCell(), cfg.CredentialName, doc, logger)
	ov := overlay.New(doc, cfg.Namespace)
	deps = plan.Deps{
		Page:     doc,
		Overlay:  ov,
		Workflow: submit.New(store, ov, api.NewClient(cfg.BaseURL, cfg.Username, logger), logger),
		Logger:   logger,
		// Blocking calls are not allowed on the JS event loop.
		Dispatch: func(fn func()) { go fn() },
	}

	fsl := js.Global().Get("Object").New()
	fsl.Set("Plan", js.FuncOf(newPlan))
	fsl.Set("Utility", js.FuncOf(newUtility))
	js.Global().Set("fsl", fsl)
	logger.Info("FSFPL client is loaded.")

	select {}
}

// newPlan(record, options) builds a Plan and returns its JS handle, or an
// Error object when the record does not validate.
func newPlan(this js.Value, args []js.Value) interface{} {
	var record plan.Record
	var opts plan.Options
	if err := decodeArgs(args, &record, &opts); err != nil {
		return throw(err)
	}
	p, err := plan.New(record, opts, deps)
	if err != nil {
		return throw(err)
	}

	handle := js.Global().Get("Object").New()
	handle.Set("send", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return promise(func() interface{} { return p.Send(context.Background(), plan.SendOptions{}).OK() })
	}))
	handle.Set("modal", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			p.Modal(args[0].String())
		}
		return nil
	}))
	handle.Set("closeModal", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		p.CloseModal()
		return nil
	}))
	handle.Set("resetButtonTexts", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		p.ResetButtonTexts()
		return nil
	}))
	handle.Set("printToButtons", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			p.PrintToButtons(args[0].String())
		}
		return nil
	}))
	return handle
}

// newUtility(options) returns {collect(mapping), send(record)}. Mapping
// values are {selector, attribute} objects or functions receiving their entry.
func newUtility(this js.Value, args []js.Value) interface{} {
	var opts plan.Options
	if err := decodeArgs(args, &opts); err != nil {
		return throw(err)
	}
	u := utility.New(deps, opts)

	handle := js.Global().Get("Object").New()
	handle.Set("collect", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) == 0 {
			return throw(errNoMapping)
		}
		m, err := mappingFromJS(args[0])
		if err != nil {
			return throw(err)
		}
		return toJS(u.Collect(m))
	}))
	handle.Set("send", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		var record plan.Record
		if err := decodeArgs(args, &record); err != nil {
			return throw(err)
		}
		return promise(func() interface{} {
			res, err := u.Send(context.Background(), record)
			if err != nil {
				logger.Error("send", zap.Error(err))
				return false
			}
			return res.OK()
		})
	}))
	return handle
}

// mappingFromJS accepts functions and {selector, attribute} objects. A
// function is called with itself as argument, its field name set on .field.
func mappingFromJS(v js.Value) (collector.Mapping, error) {
	if v.Type() != js.TypeObject {
		return nil, errNoMapping
	}
	m := collector.Mapping{}
	keys := js.Global().Get("Object").Call("keys", v)
	for i := 0; i < keys.Length(); i++ {
		field := keys.Index(i).String()
		entry := v.Get(field)
		if entry.Type() == js.TypeFunction {
			fn := entry
			m[field] = collector.Computed{Fn: func(e collector.Entry) any {
				fn.Set("field", e.Field)
				return goValue(fn.Invoke(fn))
			}}
			continue
		}
		var raw any
		if entry.Type() == js.TypeObject {
			if err := decodeArgs([]js.Value{entry}, &raw); err != nil {
				return nil, err
			}
		}
		loc, err := collector.ParseLocated(field, raw)
		if err != nil {
			return nil, err
		}
		m[field] = loc
	}
	return m, nil
}
