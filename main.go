package main

import (
	"os"

	"github.com/talentmarket/talent-match/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
