// Package main is the entry point for the nflmetrics CLI tool, which loads
// NFL player-tracking data, engineers defensive-back features, and runs the
// safeties-vs-cornerbacks analysis.
package main

import "github.com/pable/go-nfl-metrics/cmd"

func main() {
	cmd.Execute()
}
