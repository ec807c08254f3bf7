package main

import (
	"os"

	"github.com/jtladams423-replit/degen-gm/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
