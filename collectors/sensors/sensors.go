// Package sensors samples thermal zone temperature and fan speed from
// sysfs. Machines without these sensors (VMs, many desktops) are the
// common case, so absence is an explicit non-fatal "unavailable" state
// rather than an error.
package sensors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/stkisengese/desktop-system-monitor/collectors"
)

const (
	collectorName        = "sensors"
	collectorDescription = "Thermal zone and fan readings from sysfs"
)

// Data is the derived output of one sensor pass. Available flags are
// false when the corresponding sysfs entries do not exist or could not
// be read; the zero values then carry no meaning.
type Data struct {
	// TemperatureC is the first readable thermal zone, in Celsius.
	TemperatureC     float64
	ThermalAvailable bool

	// FanSpeedRPM is the first readable fan tachometer.
	FanSpeedRPM int
	// FanLevel is the PWM duty level (0-255) when exposed.
	FanLevel  int
	FanActive bool
	// FanAvailable reports whether a fan tachometer was found at all.
	FanAvailable bool
}

// Collector reads sysfs sensor files.
type Collector struct {
	logger *slog.Logger

	// Overridable for tests.
	glob     func(pattern string) ([]string, error)
	readFile func(path string) ([]byte, error)
}

// New creates a sensors collector. A nil logger discards log output.
func New(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		logger:   logger,
		glob:     filepath.Glob,
		readFile: os.ReadFile,
	}
}

// Name returns the collector's unique identifier.
func (c *Collector) Name() string { return collectorName }

// Description returns what this collector samples.
func (c *Collector) Description() string { return collectorDescription }

// Collect reads the thermal and fan sensors. A missing sensor is not a
// warning: unavailability is normal and reported through the Data flags
// so the display can show an "unavailable" panel.
func (c *Collector) Collect(ctx context.Context) (*collectors.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	var data Data

	if temp, ok := c.readThermal(); ok {
		data.TemperatureC = temp
		data.ThermalAvailable = true
	}
	if speed, level, ok := c.readFan(); ok {
		data.FanSpeedRPM = speed
		data.FanLevel = level
		data.FanActive = speed > 0
		data.FanAvailable = true
	}

	c.logger.Debug("sensors sampled",
		"thermal", data.ThermalAvailable,
		"temp", fmt.Sprintf("%.1fC", data.TemperatureC),
		"fan", data.FanAvailable,
		"rpm", data.FanSpeedRPM,
	)

	return &collectors.Result{
		Collector: collectorName,
		Timestamp: now,
		Data:      data,
	}, nil
}

// readThermal returns the first readable thermal zone in Celsius.
// Kernel thermal zones report millidegrees.
func (c *Collector) readThermal() (float64, bool) {
	paths, err := c.glob("/sys/class/thermal/thermal_zone*/temp")
	if err != nil {
		return 0, false
	}
	for _, p := range paths {
		raw, err := c.readFile(p)
		if err != nil {
			continue
		}
		milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
		if err != nil {
			continue
		}
		return milli / 1000, true
	}
	return 0, false
}

// readFan returns the first readable fan tachometer reading and, when
// the sibling pwm file exists, its duty level.
func (c *Collector) readFan() (speed, level int, ok bool) {
	paths, err := c.glob("/sys/class/hwmon/hwmon*/fan*_input")
	if err != nil {
		return 0, 0, false
	}
	for _, p := range paths {
		raw, err := c.readFile(p)
		if err != nil {
			continue
		}
		rpm, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil {
			continue
		}

		// Best-effort duty level from the matching pwm file.
		pwmPath := filepath.Join(filepath.Dir(p), "pwm1")
		if rawLevel, err := c.readFile(pwmPath); err == nil {
			if v, err := strconv.Atoi(strings.TrimSpace(string(rawLevel))); err == nil {
				level = v
			}
		}
		return rpm, level, true
	}
	return 0, 0, false
}

// Compile-time interface compliance check.
var _ collectors.Collector = (*Collector)(nil)
