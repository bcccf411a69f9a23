package main

import (
	"github.com/crashstats/memory-measures/pkg/cli"
)

func main() {
	cli.Execute()
}
