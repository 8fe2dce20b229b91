// Command analytics serves and summarizes the order export.
package main

import (
	"os"

	"github.com/eshaffer321/order-analytics/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
