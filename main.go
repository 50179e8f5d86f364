package main

import (
	"os"

	"github.com/iburimskiy/backdrop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
