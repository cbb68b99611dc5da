package main

import (
	"fmt"
	"os"

	"github.com/ampyfin/vald/cmd/vald/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
