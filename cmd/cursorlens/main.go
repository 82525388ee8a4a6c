package main

import (
	"os"

	"github.com/blueberrycongee/cursorlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
