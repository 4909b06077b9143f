// Package main - точка входа консольного клиента rentr.
package main

import (
	"os"

	"github.com/senyabanana/rentr-service/cmd/rentrctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
