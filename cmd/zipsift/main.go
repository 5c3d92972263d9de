package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zipsift/zipsift/cmd/zipsift/commands"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "zipsift",
		Short: "Deduplicate and clean ZIP archives",
		Long: `zipsift analyzes a ZIP archive, removes exact duplicates, stale files
and screenshot-like captures, and produces a reduced archive plus a
statistics report. Oversized files are flagged for review, never removed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "path to YAML config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")

	root.AddCommand(commands.NewAnalyzeCommand())
	root.AddCommand(commands.NewServeCommand())
	root.AddCommand(commands.NewVersionCommand(Version))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
