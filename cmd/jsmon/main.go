package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/jsmon/internal/config"
	"github.com/aleister1102/jsmon/internal/logger"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/aleister1102/jsmon/internal/monitor"
)

func main() {
	os.Exit(run(ParseFlags()))
}

func run(flags AppFlags) int {
	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).With().Timestamp().Logger()

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, bootLogger)
	if err != nil {
		bootLogger.Error().Err(err).Str("path", flags.GlobalConfigFile).Msg("Could not load configuration")
		return 1
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		bootLogger.Error().Err(err).Msg("Configuration validation failed")
		return 1
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		bootLogger.Error().Err(err).Msg("Could not initialize logger")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inspecting := flags.HistoryURL != "" || flags.RecentRuns > 0
	rt, err := monitor.NewRuntime(ctx, gCfg, monitor.RuntimeOptions{DryRun: flags.DryRun || gCfg.MonitorConfig.DryRun || inspecting}, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to initialize monitoring runtime")
		return 1
	}
	defer func() {
		if err := rt.Close(); err != nil {
			zLogger.Error().Err(err).Msg("Failed to close stores")
		}
	}()

	switch {
	case flags.HistoryURL != "":
		return printHistory(ctx, rt, flags.HistoryURL, zLogger)
	case flags.RecentRuns > 0:
		return printRecentRuns(ctx, rt, flags.RecentRuns, zLogger)
	}

	targets, err := collectTargets(gCfg.MonitorConfig, flags, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to load targets")
		return 1
	}
	if len(targets) == 0 {
		zLogger.Error().Msg("No targets to monitor. Use -targets, -url or monitor_config.targets_dir")
		return 1
	}

	report := rt.Service.Run(ctx, targets)
	if ctx.Err() != nil {
		zLogger.Warn().Int("skipped", report.Count(models.OutcomeSkipped)).Msg("Run interrupted by signal")
	}
	return 0
}

// collectTargets merges the targets file (or directory), configured initial URLs and -url flags
func collectTargets(mc config.MonitorConfig, flags AppFlags, log zerolog.Logger) ([]string, error) {
	loader := monitor.NewTargetLoader(log)

	var targets []string
	switch {
	case flags.TargetsFile != "":
		urls, err := loader.LoadFile(flags.TargetsFile)
		if err != nil {
			return nil, err
		}
		targets = append(targets, urls...)
	case mc.TargetsFile != "":
		urls, err := loader.LoadFile(mc.TargetsFile)
		if err != nil {
			return nil, err
		}
		targets = append(targets, urls...)
	case mc.TargetsDir != "":
		urls, err := loader.LoadDir(mc.TargetsDir)
		if err != nil {
			return nil, err
		}
		targets = append(targets, urls...)
	}

	targets = append(targets, mc.InitialURLs...)
	for _, u := range flags.URLs {
		if _, err := monitor.ValidateTargetURL(u); err != nil {
			log.Warn().Err(err).Str("url", u).Msg("Ignoring invalid -url value")
			continue
		}
		targets = append(targets, u)
	}
	return monitor.Dedupe(targets), nil
}

func printHistory(ctx context.Context, rt *monitor.Runtime, url string, log zerolog.Logger) int {
	records, err := rt.Store.HistoryRecords(ctx, url)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("Failed to read version history")
		return 1
	}
	if len(records) == 0 {
		fmt.Fprintf(os.Stdout, "No history recorded for %s\n", url)
		return 0
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CAPTURED AT\tFINGERPRINT\tSIZE")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\n", r.Time().UTC().Format(time.RFC3339), r.Fingerprint, r.Size)
	}
	_ = w.Flush()
	return 0
}

func printRecentRuns(ctx context.Context, rt *monitor.Runtime, limit int, log zerolog.Logger) int {
	if rt.Audit == nil {
		log.Error().Msg("Audit log is disabled (storage_config.enable_audit_log)")
		return 1
	}
	runs, err := rt.Audit.RecentRuns(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read audit log")
		return 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTARTED AT\tDURATION\tTOTAL\tNEW\tCHANGED\tUNCHANGED\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.RunID, r.StartedAt.UTC().Format(time.RFC3339), r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
			r.Total, r.New, r.Changed, r.Unchanged, r.Failed)
	}
	_ = w.Flush()
	return 0
}
