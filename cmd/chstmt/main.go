package main

import (
	"os"

	"github.com/Konsultn-Engineering/chstmt/cmd/chstmt/commands"
	_ "github.com/Konsultn-Engineering/chstmt/providers/postgres"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
