//go:build js && wasm
// +build js,wasm

package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"go.uber.org/zap"
)

var errNoMapping = errors.New("collect needs a mapping")

// decodeArgs round-trips each JS argument through JSON.stringify into out[i].
// Missing trailing arguments leave their targets untouched.
func decodeArgs(args []js.Value, out ...interface{}) error {
	for i, target := range out {
		if i >= len(args) || args[i].IsUndefined() || args[i].IsNull() {
			continue
		}
		raw := js.Global().Get("JSON").Call("stringify", args[i]).String()
		if err := json.Unmarshal([]byte(raw), target); err != nil {
			return err
		}
	}
	return nil
}

// goValue converts a JS value to its JSON-shaped Go equivalent: float64,
// bool, string, []any, map[string]any or nil.
func goValue(v js.Value) any {
	switch v.Type() {
	case js.TypeUndefined, js.TypeNull, js.TypeFunction, js.TypeSymbol:
		return nil
	case js.TypeString:
		return v.String()
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeNumber:
		return v.Float()
	}
	var out any
	if err := decodeArgs([]js.Value{v}, &out); err != nil {
		logger.Warn("computed value not serializable", zap.Error(err))
		return nil
	}
	return out
}

func toJS(v interface{}) js.Value {
	b, err := json.Marshal(v)
	if err != nil {
		return js.Null()
	}
	return js.Global().Get("JSON").Call("parse", string(b))
}

// throw logs err and hands the page an Error value. Panicking inside a
// js.FuncOf callback would take the whole module down.
func throw(err error) interface{} {
	logger.Warn("fsl call rejected", zap.Error(err))
	return js.Global().Get("Error").New(err.Error())
}

// promise runs fn on a goroutine and resolves with its result.
func promise(fn func() interface{}) js.Value {
	var executor js.Func
	executor = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve := args[0]
		go func() {
			defer executor.Release()
			resolve.Invoke(fn())
		}()
		return nil
	})
	return js.Global().Get("Promise").New(executor)
}
