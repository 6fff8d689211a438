package main

import (
	"os"

	"github.com/mobile-app-connector/mobile-app-connector/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
