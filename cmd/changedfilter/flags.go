// Package main provides CLI flag definitions for changedfilter.
package main

import (
	"fmt"

	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via App.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "path",
			Aliases: []string{"p"},
			Usage:   "Repository (or any directory inside it) to inspect; defaults to the working directory",
		},
		&urfavecli.StringFlag{
			Name:    "category",
			Aliases: []string{"c"},
			Usage:   "Open directly on a category: all, staged, or unstaged",
		},
		&urfavecli.BoolFlag{
			Name:    "list",
			Aliases: []string{"l"},
			Usage:   "Print the category's files instead of opening the picker",
		},
		&urfavecli.BoolFlag{
			Name:  "print",
			Usage: "Print the selected path instead of opening an editor",
		},
		&urfavecli.StringFlag{
			Name:  "output-selection",
			Usage: "Write selected file path to a file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
	}
}

// completeGlobalFlags provides basic completion for the category values.
func completeGlobalFlags(c *urfavecli.Context) {
	if c.NArg() == 0 {
		for _, id := range []string{"all", "staged", "unstaged"} {
			fmt.Println(id)
		}
	}
}
