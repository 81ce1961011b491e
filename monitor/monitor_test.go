package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stkisengese/desktop-system-monitor/collectors"
	"github.com/stkisengese/desktop-system-monitor/collectors/cpu"
	"github.com/stkisengese/desktop-system-monitor/collectors/host"
	"github.com/stkisengese/desktop-system-monitor/collectors/procs"
	"github.com/stkisengese/desktop-system-monitor/collectors/sensors"
)

// fakeSource is a controllable collector stand-in. If release is set,
// Collect blocks until a token arrives, letting tests hold a pass in
// flight across ticks.
type fakeSource struct {
	name    string
	data    any
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakeSource) Name() string        { return f.name }
func (f *fakeSource) Description() string { return "test source" }

func (f *fakeSource) Collect(ctx context.Context) (*collectors.Result, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return &collectors.Result{
		Collector: f.name,
		Timestamp: time.Now(),
		Data:      f.data,
	}, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// newTestMonitor replaces every source with an inert fake so ticks
// never touch the real /proc.
func newTestMonitor(opts Options) *Monitor {
	m := New(nil, opts)
	for sig := range m.sources {
		m.sources[sig] = &fakeSource{name: sig.String()}
	}
	return m
}

func TestTickRespectsFixedInterval(t *testing.T) {
	m := newTestMonitor(Options{MemoryInterval: time.Second})
	src := &fakeSource{name: "memory"}
	m.sources[SignalMemory] = src

	start := time.Now()
	m.Tick(start)
	m.Wait()
	if got := src.callCount(); got != 1 {
		t.Fatalf("calls after first tick = %d, want 1", got)
	}

	m.Tick(start.Add(500 * time.Millisecond))
	m.Wait()
	if got := src.callCount(); got != 1 {
		t.Errorf("calls before interval elapsed = %d, want 1", got)
	}

	m.Tick(start.Add(time.Second))
	m.Wait()
	if got := src.callCount(); got != 2 {
		t.Errorf("calls after interval elapsed = %d, want 2", got)
	}
}

func TestTickUsesBufferCadenceForHistorySignals(t *testing.T) {
	m := newTestMonitor(Options{})
	src := &fakeSource{name: "cpu", data: cpu.Data{Usage: 40}}
	m.sources[SignalCPU] = src
	m.SetCadence(SignalCPU, 10) // 100ms period

	start := time.Now()
	m.Tick(start)
	m.Wait()
	m.Tick(start.Add(50 * time.Millisecond))
	m.Wait()
	if got := src.callCount(); got != 1 {
		t.Errorf("calls before cadence period = %d, want 1", got)
	}

	m.Tick(start.Add(100 * time.Millisecond))
	m.Wait()
	if got := src.callCount(); got != 2 {
		t.Errorf("calls after cadence period = %d, want 2", got)
	}
}

func TestTickCoalescesOverlappingPasses(t *testing.T) {
	m := newTestMonitor(Options{NetworkInterval: time.Second})
	src := &fakeSource{name: "network", release: make(chan struct{}, 2)}
	m.sources[SignalNetwork] = src

	start := time.Now()
	m.Tick(start)
	// Three more due ticks while the first pass is still blocked.
	m.Tick(start.Add(time.Second))
	m.Tick(start.Add(2 * time.Second))
	m.Tick(start.Add(3 * time.Second))

	// One token for the in-flight pass, one for the single coalesced
	// follow-up.
	src.release <- struct{}{}
	src.release <- struct{}{}
	m.Wait()

	if got := src.callCount(); got != 2 {
		t.Errorf("calls = %d, want 2 (one in flight, one coalesced)", got)
	}
}

func TestApplyRecordsCPUHistory(t *testing.T) {
	m := newTestMonitor(Options{})

	m.apply(SignalCPU, &collectors.Result{Data: cpu.Data{Usage: 62.5}})

	hist := m.History(SignalCPU)
	if len(hist) != 1 || hist[0] != 62.5 {
		t.Errorf("History(SignalCPU) = %v, want [62.5]", hist)
	}
	if cur, ok := m.Current(SignalCPU); !ok || cur != 62.5 {
		t.Errorf("Current(SignalCPU) = %v, %v, want 62.5, true", cur, ok)
	}
}

func TestApplySkipsUnavailableSensorHistory(t *testing.T) {
	m := newTestMonitor(Options{})

	m.apply(SignalThermal, &collectors.Result{Data: sensors.Data{ThermalAvailable: false}})
	if hist := m.History(SignalThermal); len(hist) != 0 {
		t.Errorf("History(SignalThermal) = %v, want empty", hist)
	}

	m.apply(SignalThermal, &collectors.Result{Data: sensors.Data{
		ThermalAvailable: true,
		TemperatureC:     48.0,
	}})
	if hist := m.History(SignalThermal); len(hist) != 1 || hist[0] != 48.0 {
		t.Errorf("History(SignalThermal) = %v, want [48]", hist)
	}

	m.apply(SignalFan, &collectors.Result{Data: sensors.Data{
		FanAvailable: true,
		FanSpeedRPM:  2400,
	}})
	if hist := m.History(SignalFan); len(hist) != 1 || hist[0] != 2400 {
		t.Errorf("History(SignalFan) = %v, want [2400]", hist)
	}
}

func TestSummaryComposition(t *testing.T) {
	m := newTestMonitor(Options{})

	m.apply(SignalSummary, &collectors.Result{Data: host.Data{
		OSName:   "linux (ubuntu 24.04)",
		Hostname: "workbench",
		Username: "alice",
		Uptime:   2 * time.Hour,
	}})
	m.apply(SignalCPU, &collectors.Result{Data: cpu.Data{Usage: 33.0}})
	m.apply(SignalProcesses, &collectors.Result{Data: procs.Data{
		Counts: procs.Counts{Total: 120, Running: 3, Sleeping: 110},
	}})

	s := m.Summary()
	if s.Hostname != "workbench" || s.Username != "alice" {
		t.Errorf("identity = %q/%q, want workbench/alice", s.Hostname, s.Username)
	}
	if s.CPUUsage != 33.0 {
		t.Errorf("CPUUsage = %v, want 33", s.CPUUsage)
	}
	if s.Counts.Total != 120 || s.Counts.Running != 3 {
		t.Errorf("Counts = %+v, want Total 120 Running 3", s.Counts)
	}
	if s.Uptime != 2*time.Hour {
		t.Errorf("Uptime = %v, want 2h", s.Uptime)
	}
}

func TestProcessesFilterAndSort(t *testing.T) {
	m := newTestMonitor(Options{})
	m.apply(SignalProcesses, &collectors.Result{Data: procs.Data{
		Rows: []procs.Row{
			{PID: 1, Name: "systemd", CPUPercent: 5},
			{PID: 2, Name: "kthreadd", CPUPercent: 20},
			{PID: 3, Name: "firefox", CPUPercent: 0},
		},
	}})

	tests := []struct {
		name    string
		filter  string
		col     SortColumn
		asc     bool
		wantPID []int
	}{
		{"cpu descending", "", SortCPU, false, []int{2, 1, 3}},
		{"pid ascending", "", SortPID, true, []int{1, 2, 3}},
		{"name ascending", "", SortName, true, []int{3, 2, 1}},
		{"filter substring", "fire", SortPID, true, []int{3}},
		{"filter case-insensitive", "SYSTEM", SortPID, true, []int{1}},
		{"filter no match", "postgres", SortPID, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := m.Processes(tt.filter, tt.col, tt.asc)
			if len(rows) != len(tt.wantPID) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.wantPID))
			}
			for i, want := range tt.wantPID {
				if rows[i].PID != want {
					t.Errorf("row %d PID = %d, want %d", i, rows[i].PID, want)
				}
			}
		})
	}
}

func TestProcessesTieBreakByPID(t *testing.T) {
	m := newTestMonitor(Options{})
	m.apply(SignalProcesses, &collectors.Result{Data: procs.Data{
		Rows: []procs.Row{
			{PID: 9, Name: "worker", CPUPercent: 10},
			{PID: 4, Name: "worker", CPUPercent: 10},
			{PID: 7, Name: "worker", CPUPercent: 10},
		},
	}})

	rows := m.Processes("", SortCPU, false)
	want := []int{4, 7, 9}
	for i, w := range want {
		if rows[i].PID != w {
			t.Errorf("row %d PID = %d, want %d", i, rows[i].PID, w)
		}
	}
}

func TestPauseAndCadenceDelegation(t *testing.T) {
	m := newTestMonitor(Options{})

	m.SetPaused(SignalCPU, true)
	if !m.Paused(SignalCPU) {
		t.Error("Paused(SignalCPU) = false after SetPaused(true)")
	}
	// A non-history signal silently ignores pause state.
	m.SetPaused(SignalMemory, true)
	if m.Paused(SignalMemory) {
		t.Error("Paused(SignalMemory) = true, want false")
	}

	m.SetCadence(SignalCPU, 99)
	if got := m.Cadence(SignalCPU); got != 30 {
		t.Errorf("Cadence after over-range set = %v, want 30", got)
	}
	if got := m.Cadence(SignalNetwork); got != 0 {
		t.Errorf("Cadence(SignalNetwork) = %v, want 0", got)
	}

	if _, ok := m.Current(SignalProcesses); ok {
		t.Error("Current(SignalProcesses) reported a value, want none")
	}
}

func TestFilterRoundTrip(t *testing.T) {
	m := newTestMonitor(Options{})
	if m.Filter() != "" {
		t.Errorf("initial Filter() = %q, want empty", m.Filter())
	}
	m.SetFilter("chrome")
	if m.Filter() != "chrome" {
		t.Errorf("Filter() = %q, want %q", m.Filter(), "chrome")
	}
}
