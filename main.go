package main

import (
	"os"

	"github.com/bisegni/druidtab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
