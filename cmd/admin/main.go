package main

import (
	"os"

	"github.com/Hiro-mackay/pdfops/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
