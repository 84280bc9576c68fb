package main

import (
	"os"

	"github.com/limhaneul12/kafka-gov-console/internal/cli"
	"github.com/limhaneul12/kafka-gov-console/internal/cli/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		output.WriteError(os.Stderr, err)
		os.Exit(1)
	}
}
