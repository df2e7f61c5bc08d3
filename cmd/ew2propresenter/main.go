package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/roboco-io/ew2propresenter/internal/cli"
)

// set via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// a missing .env file is fine
	_ = godotenv.Load()

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
