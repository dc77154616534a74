//go:build js && wasm

package main

import (
	"context"
	"syscall/js"

	"github.com/voxelsplace/voxslicer/api"
	"github.com/voxelsplace/voxslicer/config"
	"github.com/voxelsplace/voxslicer/export"
)

func bytesArg(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func toUint8Array(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// options reads the optional importer YAML passed as the second argument.
func options(args []js.Value) (api.Options, error) {
	if len(args) < 2 || args[1].IsUndefined() || args[1].IsNull() {
		return api.Options{}, nil
	}
	return api.OptionsFromImporter([]byte(args[1].String()), config.YAML)
}

func sliced2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing image bytes")
	}
	opts, err := options(args)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	out, err := api.ImageToGLB(context.Background(), bytesArg(args[0]), opts)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

func sliced2pack(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing image bytes")
	}
	opts, err := options(args)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	out, err := api.ImageToPack(context.Background(), bytesArg(args[0]), opts, export.PackCompZstd)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

func pack2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing pack bytes")
	}
	out, err := api.PackToGLB(bytesArg(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

func forgottenColors(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing image bytes")
	}
	opts, err := options(args)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	colors, err := api.ForgottenColors(bytesArg(args[0]), opts)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	out := make([]any, len(colors))
	for i, c := range colors {
		out[i] = c
	}
	return js.ValueOf(out)
}

func main() {
	js.Global().Set("sliced2glb", js.FuncOf(sliced2glb))
	js.Global().Set("sliced2pack", js.FuncOf(sliced2pack))
	js.Global().Set("pack2glb", js.FuncOf(pack2glb))
	js.Global().Set("forgottenColors", js.FuncOf(forgottenColors))
	select {}
}
