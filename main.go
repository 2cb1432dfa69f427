// main.go
package main

import (
	"context"
	"os"
	"os/signal"

	"northcheck/modules"
	"northcheck/pkg/config"
)

func main() {
	// Load .env if available
	config.LoadDotEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := modules.NewApp(os.Stdout, os.Stderr).Execute(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
