package main

import (
	"os"

	"github.com/dshills/quantaplan/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand()))
}
