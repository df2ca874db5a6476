package main

import (
	"os"

	"github.com/Reaganramsarup/dubber-poc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
