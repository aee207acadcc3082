// hound-tui is a terminal client for Hound code search servers.
package main

import (
	"os"

	"github.com/altinukshini/hound-tui/cmd/hound-tui/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
