package main

import (
	"log"

	"github.com/college-feedback/feedback-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
