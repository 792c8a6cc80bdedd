// Package main is the entry point for the soccermetrics CLI tool, which
// computes playing time and danger dribbles from StatsBomb event data.
package main

import "github.com/MarijnSt/soccermatics-project-1/cmd"

func main() {
	cmd.Execute()
}
