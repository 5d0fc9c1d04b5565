// Package main is the entry point for trueshuffle.
//
// trueshuffle replaces a streaming player's shuffle with a weighted draw
// that avoids recent tracks and back-to-back artists.
//
// Build:
//
//	go build -ldflags "-X github.com/tejashwikalptaru/trueshuffle/internal/app.Version=v0.1.0" -o build/trueshuffle ./cmd
//
// Run:
//
//	./build/trueshuffle login
//	./build/trueshuffle run
//	./build/trueshuffle simulate --headless --skips 200
package main

import "github.com/tejashwikalptaru/trueshuffle/internal/cli"

func main() {
	cli.Execute()
}
