// Package main implements the storefront command: the admin API server,
// schema migrations and small operator helpers.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
