package main

import (
	"os"

	"github.com/aptitude-lab/modelscore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
