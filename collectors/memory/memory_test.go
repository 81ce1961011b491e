package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

type stringReadCloser struct {
	*strings.Reader
}

func (s *stringReadCloser) Close() error { return nil }

func newReadCloser(content string) io.ReadCloser {
	return &stringReadCloser{strings.NewReader(content)}
}

const sampleMeminfo = `MemTotal:       16000000 kB
MemFree:         2000000 kB
MemAvailable:    4000000 kB
Buffers:          500000 kB
Cached:          3000000 kB
SwapTotal:       8000000 kB
SwapFree:        6000000 kB
`

func newTestCollector(meminfo string, statfsErr error) *Collector {
	c := New(nil)
	c.openMeminfo = func() (io.ReadCloser, error) {
		return newReadCloser(meminfo), nil
	}
	c.statfs = func(path string, buf *unix.Statfs_t) error {
		if statfsErr != nil {
			return statfsErr
		}
		buf.Blocks = 1000
		buf.Bfree = 300
		buf.Bavail = 250
		buf.Frsize = 4096
		return nil
	}
	return c
}

func collectData(t *testing.T, c *Collector) (Data, []string) {
	t.Helper()
	res, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return res.Data.(Data), res.Warnings
}

func TestCollectRAMAndSwap(t *testing.T) {
	data, warnings := collectData(t, newTestCollector(sampleMeminfo, nil))
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}

	if data.TotalRAM != 16000000*1024 {
		t.Errorf("TotalRAM = %d, want %d", data.TotalRAM, uint64(16000000*1024))
	}
	if data.UsedRAM != 12000000*1024 {
		t.Errorf("UsedRAM = %d, want %d", data.UsedRAM, uint64(12000000*1024))
	}
	if data.RAMPercent != 75 {
		t.Errorf("RAMPercent = %f, want 75", data.RAMPercent)
	}
	if data.UsedSwap != 2000000*1024 {
		t.Errorf("UsedSwap = %d, want %d", data.UsedSwap, uint64(2000000*1024))
	}
	if data.SwapPercent != 25 {
		t.Errorf("SwapPercent = %f, want 25", data.SwapPercent)
	}
}

func TestCollectDisk(t *testing.T) {
	data, _ := collectData(t, newTestCollector(sampleMeminfo, nil))

	if data.TotalDisk != 1000*4096 {
		t.Errorf("TotalDisk = %d, want %d", data.TotalDisk, uint64(1000*4096))
	}
	if data.UsedDisk != 750*4096 {
		t.Errorf("UsedDisk = %d, want %d", data.UsedDisk, uint64(750*4096))
	}
	if data.DiskPercent != 75 {
		t.Errorf("DiskPercent = %f, want 75", data.DiskPercent)
	}
}

func TestCollectStatfsFailureDegrades(t *testing.T) {
	data, warnings := collectData(t, newTestCollector(sampleMeminfo, unix.EACCES))

	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one statfs warning", warnings)
	}
	if data.DiskPercent != 0 {
		t.Errorf("DiskPercent = %f, want 0 on statfs failure", data.DiskPercent)
	}
	// RAM numbers still present.
	if data.RAMPercent != 75 {
		t.Errorf("RAMPercent = %f, want 75 despite disk failure", data.RAMPercent)
	}
}

func TestCollectZeroTotalsYieldZeroPercent(t *testing.T) {
	// MemTotal missing entirely: warning, percent 0, no panic.
	data, warnings := collectData(t, newTestCollector("SwapTotal: 0 kB\nSwapFree: 0 kB\n", nil))

	if len(warnings) == 0 {
		t.Error("expected warning for missing MemTotal")
	}
	if data.RAMPercent != 0 {
		t.Errorf("RAMPercent = %f, want 0 for zero total", data.RAMPercent)
	}
	if data.SwapPercent != 0 {
		t.Errorf("SwapPercent = %f, want 0 for zero swap total", data.SwapPercent)
	}
}

func TestParseKBLine(t *testing.T) {
	if got := parseKBLine("MemTotal:       1024 kB"); got != 1024*1024 {
		t.Errorf("parseKBLine = %d, want %d", got, uint64(1024*1024))
	}
	if got := parseKBLine("Garbage"); got != 0 {
		t.Errorf("parseKBLine(garbage) = %d, want 0", got)
	}
}
