//go:build !(js && wasm)

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/voxelsplace/voxslicer/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Println("Error:", err)
		stop()
		os.Exit(1)
	}
	fmt.Println("Operation completed!")
}
