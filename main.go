package main

import (
	"log"

	"github.com/ekant1999/StrategyEvolve/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("could not start application: %v", err)
	}
}
