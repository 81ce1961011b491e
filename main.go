// sysmon is a terminal system monitor for Linux desktops.
//
// It samples CPU, memory, process, network and thermal state from the
// proc and sys filesystems, derives usage rates from successive
// snapshots, and renders everything in an interactive dashboard with
// scrolling history graphs.
//
// Usage:
//
//	sysmon [flags]
//
// Flags:
//
//	-config string  Path to configuration file (default: ~/.config/sysmon/config.yaml)
//	-dump           Print a one-shot text snapshot and exit
//	-verbose        Enable verbose logging
//	-version        Print version and exit
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/stkisengese/desktop-system-monitor/config"
	"github.com/stkisengese/desktop-system-monitor/display/tui"
	"github.com/stkisengese/desktop-system-monitor/monitor"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (default: ~/.config/sysmon/config.yaml)")
		runDump     = flag.Bool("dump", false, "Print a one-shot text snapshot and exit")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("sysmon %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := setupLogger(cfg.LogFile, *verbose, *runDump)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	mon := newMonitor(cfg, logger)

	if *runDump {
		if err := runDumpMode(mon, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "dump failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	zone.NewGlobal()
	program := tea.NewProgram(
		tui.NewModel(mon, cfg.Display),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: %v\n", err)
		os.Exit(1)
	}
	mon.Wait()

	if err := saveRuntimeState(cfg, mon, path); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save config: %v\n", err)
	}
}

// saveRuntimeState writes pause and cadence changes made during the
// session back to the config file so they survive a restart.
func saveRuntimeState(cfg *config.Config, mon *monitor.Monitor, path string) error {
	if path == "" {
		return nil
	}

	graphs := []struct {
		sig   monitor.Signal
		graph *config.GraphConfig
	}{
		{monitor.SignalCPU, &cfg.History.CPU},
		{monitor.SignalThermal, &cfg.History.Thermal},
		{monitor.SignalFan, &cfg.History.Fan},
	}
	for _, g := range graphs {
		g.graph.CadenceHz = mon.Cadence(g.sig)
		g.graph.Paused = mon.Paused(g.sig)
	}

	return config.SaveConfig(cfg, path)
}

// newMonitor builds a monitor from the configuration and applies the
// per-graph startup state.
func newMonitor(cfg *config.Config, logger *slog.Logger) *monitor.Monitor {
	mon := monitor.New(logger, monitor.Options{
		MemoryInterval:  config.Interval(cfg.Sampling.MemoryInterval, 0),
		ProcessInterval: config.Interval(cfg.Sampling.ProcessInterval, 0),
		NetworkInterval: config.Interval(cfg.Sampling.NetworkInterval, 0),
		SummaryInterval: config.Interval(cfg.Sampling.SummaryInterval, 0),
		HistoryCapacity: cfg.History.Capacity,
	})

	graphs := []struct {
		sig monitor.Signal
		cfg config.GraphConfig
	}{
		{monitor.SignalCPU, cfg.History.CPU},
		{monitor.SignalThermal, cfg.History.Thermal},
		{monitor.SignalFan, cfg.History.Fan},
	}
	for _, g := range graphs {
		mon.SetCadence(g.sig, g.cfg.CadenceHz)
		mon.SetPaused(g.sig, g.cfg.Paused)
	}

	return mon
}

// setupLogger builds the application logger. Logs go to the configured
// file; with no file configured, verbose logging goes to stderr in
// dump mode and is discarded otherwise so it never corrupts the TUI.
func setupLogger(logFile string, verbose, dump bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }, nil
	}

	var w io.Writer = io.Discard
	if dump && verbose {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, opts)), func() {}, nil
}
