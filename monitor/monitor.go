// Package monitor owns the sampling pipeline: it schedules collectors,
// applies their typed results, and serves read-side queries to the
// display layer. All sampling happens in short-lived goroutines so a
// slow /proc read never blocks the render loop.
package monitor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stkisengese/desktop-system-monitor/collectors"
	"github.com/stkisengese/desktop-system-monitor/collectors/cpu"
	"github.com/stkisengese/desktop-system-monitor/collectors/host"
	"github.com/stkisengese/desktop-system-monitor/collectors/memory"
	"github.com/stkisengese/desktop-system-monitor/collectors/network"
	"github.com/stkisengese/desktop-system-monitor/collectors/procs"
	"github.com/stkisengese/desktop-system-monitor/collectors/sensors"
	"github.com/stkisengese/desktop-system-monitor/history"
)

// Signal identifies one independently scheduled sampling stream.
type Signal int

const (
	// History-bearing signals: sampled at their buffer's cadence.
	SignalCPU Signal = iota
	SignalThermal
	SignalFan

	// Fixed-interval signals.
	SignalMemory
	SignalProcesses
	SignalNetwork
	SignalSummary
)

// String returns the signal's display name.
func (s Signal) String() string {
	switch s {
	case SignalCPU:
		return "cpu"
	case SignalThermal:
		return "thermal"
	case SignalFan:
		return "fan"
	case SignalMemory:
		return "memory"
	case SignalProcesses:
		return "processes"
	case SignalNetwork:
		return "network"
	case SignalSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// signals lists every scheduled stream in a stable order.
var signals = []Signal{
	SignalCPU, SignalThermal, SignalFan,
	SignalMemory, SignalProcesses, SignalNetwork, SignalSummary,
}

// collectTimeout bounds a single collection pass.
const collectTimeout = 5 * time.Second

// Options configures the monitor's fixed sampling intervals and
// history depth. Zero values take the defaults.
type Options struct {
	MemoryInterval  time.Duration
	ProcessInterval time.Duration
	NetworkInterval time.Duration
	SummaryInterval time.Duration
	HistoryCapacity int
}

func (o *Options) withDefaults() {
	if o.MemoryInterval <= 0 {
		o.MemoryInterval = time.Second
	}
	if o.ProcessInterval <= 0 {
		o.ProcessInterval = 3 * time.Second
	}
	if o.NetworkInterval <= 0 {
		o.NetworkInterval = time.Second
	}
	if o.SummaryInterval <= 0 {
		o.SummaryInterval = 2 * time.Second
	}
	if o.HistoryCapacity <= 0 {
		o.HistoryCapacity = history.DefaultCapacity
	}
}

// gate tracks scheduling state for one signal. A signal has at most one
// collection in flight; ticks arriving during a pass are coalesced into
// a single follow-up run.
type gate struct {
	interval time.Duration // fixed interval; zero means buffer cadence
	last     time.Time
	inflight bool
	pending  bool
}

// Monitor is the sampling facade. It is safe for concurrent use.
type Monitor struct {
	logger *slog.Logger
	opts   Options

	registry *collectors.Registry
	sources  map[Signal]collectors.Collector
	buffers  map[Signal]*history.Buffer

	gateMu sync.Mutex
	gates  map[Signal]*gate

	mu          sync.RWMutex
	cpuData     cpu.Data
	memData     memory.Data
	procsData   procs.Data
	netData     network.Data
	sensorsData sensors.Data
	hostData    host.Data
	warnings    map[Signal][]string
	filter      string

	now func() time.Time

	// wg tracks in-flight collection goroutines so shutdown and tests
	// can wait for a quiet pipeline.
	wg sync.WaitGroup
}

// New creates a monitor with real collectors wired. A nil logger
// discards log output.
func New(logger *slog.Logger, opts Options) *Monitor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts.withDefaults()

	cpuCol := cpu.New(logger)
	memCol := memory.New(logger)
	procsCol := procs.New(logger)
	netCol := network.New(logger)
	sensorsCol := sensors.New(logger)
	hostCol := host.New(logger)

	registry := collectors.NewRegistry()
	registry.Register(cpuCol)
	registry.Register(memCol)
	registry.Register(procsCol)
	registry.Register(netCol)
	registry.Register(sensorsCol)
	registry.Register(hostCol)

	m := &Monitor{
		logger:   logger,
		opts:     opts,
		registry: registry,
		sources: map[Signal]collectors.Collector{
			SignalCPU:       cpuCol,
			SignalThermal:   sensorsCol,
			SignalFan:       sensorsCol,
			SignalMemory:    memCol,
			SignalProcesses: procsCol,
			SignalNetwork:   netCol,
			SignalSummary:   hostCol,
		},
		buffers: map[Signal]*history.Buffer{
			SignalCPU:     history.New(opts.HistoryCapacity),
			SignalThermal: history.New(opts.HistoryCapacity),
			SignalFan:     history.New(opts.HistoryCapacity),
		},
		gates:    make(map[Signal]*gate, len(signals)),
		warnings: make(map[Signal][]string),
		now:      time.Now,
	}

	m.gates[SignalCPU] = &gate{}
	m.gates[SignalThermal] = &gate{}
	m.gates[SignalFan] = &gate{}
	m.gates[SignalMemory] = &gate{interval: opts.MemoryInterval}
	m.gates[SignalProcesses] = &gate{interval: opts.ProcessInterval}
	m.gates[SignalNetwork] = &gate{interval: opts.NetworkInterval}
	m.gates[SignalSummary] = &gate{interval: opts.SummaryInterval}

	return m
}

// Registry exposes the collector registry for diagnostics output.
func (m *Monitor) Registry() *collectors.Registry { return m.registry }

// Tick advances the scheduler. Each due signal launches a collection
// goroutine; a signal already collecting records a pending run instead
// of stacking a second one.
func (m *Monitor) Tick(now time.Time) {
	m.gateMu.Lock()
	defer m.gateMu.Unlock()

	for _, sig := range signals {
		g := m.gates[sig]
		interval := g.interval
		if interval == 0 {
			interval = m.buffers[sig].Period()
		}
		if !g.last.IsZero() && now.Sub(g.last) < interval {
			continue
		}
		if g.inflight {
			g.pending = true
			continue
		}
		g.inflight = true
		g.last = now
		m.launch(sig)
	}
}

// launch starts a collection goroutine for sig. Callers must hold
// gateMu with the gate already marked in flight.
func (m *Monitor) launch(sig Signal) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.runSignal(sig)
	}()
}

// runSignal performs one collection pass for sig and releases its gate,
// relaunching once if a tick arrived mid-pass.
func (m *Monitor) runSignal(sig Signal) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	src := m.sources[sig]
	result, err := src.Collect(ctx)
	if err != nil {
		m.logger.Error("collector failed", "signal", sig.String(), "error", err)
	} else {
		for _, w := range result.Warnings {
			m.logger.Warn("collector warning", "signal", sig.String(), "warning", w)
		}
		m.apply(sig, result)
	}

	m.gateMu.Lock()
	g := m.gates[sig]
	g.inflight = false
	rerun := g.pending
	g.pending = false
	if rerun {
		g.inflight = true
		g.last = m.now()
		m.launch(sig)
	}
	m.gateMu.Unlock()
}

// apply stores a collector result and records history samples.
func (m *Monitor) apply(sig Signal, result *collectors.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.warnings[sig] = result.Warnings

	switch sig {
	case SignalCPU:
		data, ok := result.Data.(cpu.Data)
		if !ok {
			return
		}
		m.cpuData = data
		m.buffers[SignalCPU].Record(data.Usage)
	case SignalThermal:
		data, ok := result.Data.(sensors.Data)
		if !ok {
			return
		}
		m.sensorsData = data
		if data.ThermalAvailable {
			m.buffers[SignalThermal].Record(data.TemperatureC)
		}
	case SignalFan:
		data, ok := result.Data.(sensors.Data)
		if !ok {
			return
		}
		m.sensorsData = data
		if data.FanAvailable {
			m.buffers[SignalFan].Record(float64(data.FanSpeedRPM))
		}
	case SignalMemory:
		if data, ok := result.Data.(memory.Data); ok {
			m.memData = data
		}
	case SignalProcesses:
		if data, ok := result.Data.(procs.Data); ok {
			m.procsData = data
		}
	case SignalNetwork:
		if data, ok := result.Data.(network.Data); ok {
			m.netData = data
		}
	case SignalSummary:
		if data, ok := result.Data.(host.Data); ok {
			m.hostData = data
		}
	}
}

// Wait blocks until all in-flight collection goroutines finish.
func (m *Monitor) Wait() { m.wg.Wait() }

// SetPaused pauses or resumes history recording for a signal. Signals
// without history ignore the call.
func (m *Monitor) SetPaused(sig Signal, paused bool) {
	if buf, ok := m.buffers[sig]; ok {
		buf.SetPaused(paused)
	}
}

// Paused reports whether a history signal is paused.
func (m *Monitor) Paused(sig Signal) bool {
	if buf, ok := m.buffers[sig]; ok {
		return buf.Paused()
	}
	return false
}

// SetCadence sets a history signal's sampling rate in Hz, clamped to
// the supported range.
func (m *Monitor) SetCadence(sig Signal, hz float64) {
	if buf, ok := m.buffers[sig]; ok {
		buf.SetCadence(hz)
	}
}

// Cadence returns a history signal's sampling rate in Hz.
func (m *Monitor) Cadence(sig Signal) float64 {
	if buf, ok := m.buffers[sig]; ok {
		return buf.Cadence()
	}
	return 0
}
