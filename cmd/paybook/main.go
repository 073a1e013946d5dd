package main

import (
	"os"

	"github.com/felixgeelhaar/paybook/internal/infrastructure/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
