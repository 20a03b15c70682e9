package main

import "github.com/bagucv/bagbot-engine/cmd"

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cmd.Execute(Version)
}
