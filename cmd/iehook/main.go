package main

import (
	"os"

	"github.com/wayfind/origin-task/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
