// Package main is the entry point for the suitesync CLI.
package main

import "suitesync.dev/pkg/suitesync/cmd"

func main() {
	cmd.Execute()
}
