package main

import (
	"os"

	"github.com/tzemach-hadar/ai-job-hunter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
