package main

import (
	"fmt"
	"os"

	"oxrsession/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "oxrsession:", err)
		os.Exit(1)
	}
}
