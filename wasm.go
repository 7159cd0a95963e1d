//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cottand/tsolve/tsolve"
)

func main() {
	js.Global().Set("SolveAndShowTypes", js.FuncOf(tsolve.SolveAndShowTypes))
	js.Global().Set("CompareTypes", js.FuncOf(tsolve.CompareTypes))

	// wait indefinitely so that Go does not terminate execution
	// and the function remains available
	<-make(chan struct{})
}
