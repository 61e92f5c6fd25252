// Package main is the entry point for the graft CLI.
package main

import "graft.dev/pkg/graft/cmd"

func main() {
	cmd.Execute()
}
