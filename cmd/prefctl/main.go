package main

import (
	"os"

	"deskprefs/cmd/prefctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
