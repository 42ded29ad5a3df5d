package main

import (
	"github.com/scoutmcp/scout/cmd"
)

func main() {
	// Execute the root command.
	cmd.Execute()
}
