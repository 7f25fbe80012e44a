package main

import (
	"fmt"
	"os"

	app "sysward/internal"
	"sysward/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	configPath := app.ResolveConfigPath()

	a, err := app.NewApp(configPath, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing sysward: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		// The fatal handler records the failure, cleans up, and exits.
		a.Log.HandleFatal("cli", "sysward", 1)
	}

	_ = a.Close()
}
