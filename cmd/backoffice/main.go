package main

import (
	"os"

	"github.com/gosuda/backoffice/cmd/backoffice/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
