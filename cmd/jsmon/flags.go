package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// urlList collects a repeatable -url flag
type urlList []string

func (u *urlList) String() string { return strings.Join(*u, ",") }

func (u *urlList) Set(v string) error {
	*u = append(*u, v)
	return nil
}

type AppFlags struct {
	GlobalConfigFile string
	TargetsFile      string
	URLs             []string
	HistoryURL       string
	RecentRuns       int
	DryRun           bool
}

func ParseFlags() AppFlags {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) AppFlags {
	globalConfigFile := fs.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := fs.String("c", "", "Alias for -config")

	targetsFile := fs.String("targets", "", "Path to a text file of target URLs. Overrides monitor_config.targets_dir.")
	targetsFileAlias := fs.String("t", "", "Alias for -targets")

	var urls urlList
	fs.Var(&urls, "url", "Target URL to check (repeatable)")
	fs.Var(&urls, "u", "Alias for -url")

	historyURL := fs.String("history", "", "Print the recorded version history of a URL and exit")
	recentRuns := fs.Int("runs", 0, "Print the N most recent runs from the audit log and exit")
	dryRun := fs.Bool("dry-run", false, "Fetch, diff and analyze without sending notifications")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(2)
	}

	flags := AppFlags{
		URLs:       urls,
		HistoryURL: *historyURL,
		RecentRuns: *recentRuns,
		DryRun:     *dryRun,
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *targetsFile != "" {
		flags.TargetsFile = *targetsFile
	} else if *targetsFileAlias != "" {
		flags.TargetsFile = *targetsFileAlias
	}

	return flags
}
