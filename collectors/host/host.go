// Package host samples slow-moving machine identity for the system
// summary: OS, hostname, user, kernel, CPU model, uptime. Every field
// degrades independently to the "unknown" sentinel so one failed lookup
// never empties the whole summary.
package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"strings"
	"time"

	ghost "github.com/shirou/gopsutil/v4/host"

	"github.com/stkisengese/desktop-system-monitor/collectors"
)

const (
	collectorName        = "host"
	collectorDescription = "Machine identity: OS, hostname, user, CPU model, uptime"

	// Unknown is the sentinel for a field that could not be resolved.
	Unknown = "unknown"
)

// Data is one system identity snapshot.
type Data struct {
	OSName   string
	Hostname string
	Username string
	Kernel   string
	CPUModel string
	Uptime   time.Duration
}

// Collector reads machine identity.
type Collector struct {
	logger *slog.Logger

	// Overridable for tests.
	hostInfo    func(ctx context.Context) (*ghost.InfoStat, error)
	openCPUInfo func() (io.ReadCloser, error)
	getenv      func(string) string
	currentUser func() (*user.User, error)
}

// New creates a host collector. A nil logger discards log output.
func New(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		logger:   logger,
		hostInfo: ghost.InfoWithContext,
		openCPUInfo: func() (io.ReadCloser, error) {
			return os.Open("/proc/cpuinfo")
		},
		getenv:      os.Getenv,
		currentUser: user.Current,
	}
}

// Name returns the collector's unique identifier.
func (c *Collector) Name() string { return collectorName }

// Description returns what this collector samples.
func (c *Collector) Description() string { return collectorDescription }

// Collect resolves machine identity fields, substituting Unknown for
// anything that fails.
func (c *Collector) Collect(ctx context.Context) (*collectors.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	var warnings []string

	data := Data{
		OSName:   Unknown,
		Hostname: Unknown,
		Username: c.username(),
		Kernel:   Unknown,
		CPUModel: Unknown,
	}

	if info, err := c.hostInfo(ctx); err == nil {
		data.Hostname = info.Hostname
		data.Kernel = info.KernelVersion
		data.Uptime = time.Duration(info.Uptime) * time.Second
		data.OSName = osLabel(info)
	} else {
		warnings = append(warnings, fmt.Sprintf("host: resolve host info: %v", err))
	}

	if model, ok := c.cpuModel(); ok {
		data.CPUModel = model
	} else {
		warnings = append(warnings, "host: cpu model not found in /proc/cpuinfo")
	}

	c.logger.Debug("host sampled", "hostname", data.Hostname, "os", data.OSName)

	return &collectors.Result{
		Collector: collectorName,
		Timestamp: now,
		Data:      data,
		Warnings:  warnings,
	}, nil
}

// osLabel builds a display label like "linux (ubuntu 24.04)".
func osLabel(info *ghost.InfoStat) string {
	if info.OS == "" {
		return Unknown
	}
	if info.Platform == "" {
		return info.OS
	}
	return fmt.Sprintf("%s (%s %s)", info.OS, info.Platform, info.PlatformVersion)
}

// username resolves the current user, preferring $USER and falling back
// to the passwd database.
func (c *Collector) username() string {
	if name := c.getenv("USER"); name != "" {
		return name
	}
	if u, err := c.currentUser(); err == nil && u.Username != "" {
		return u.Username
	}
	return Unknown
}

// cpuModel extracts the "model name" field from /proc/cpuinfo.
func (c *Collector) cpuModel() (string, bool) {
	f, err := c.openCPUInfo()
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "model name") {
			continue
		}
		if _, value, found := strings.Cut(line, ":"); found {
			model := strings.TrimSpace(value)
			if model != "" {
				return model, true
			}
		}
	}
	return "", false
}

// Compile-time interface compliance check.
var _ collectors.Collector = (*Collector)(nil)
