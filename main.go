package main

import (
	"os"

	"github.com/cheerioskun/teesheet/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
