package main

import (
	"os"

	"github.com/GoChurchAdmin/GoChurchAdmin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
