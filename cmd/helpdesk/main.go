package main

import (
	"log"

	"github.com/nexus-suite/helpdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
