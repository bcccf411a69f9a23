package main

import (
	"log"

	"github.com/crashstats/memory-measures/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
