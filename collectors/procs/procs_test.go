package procs

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

type stringReadCloser struct {
	*strings.Reader
}

func (s *stringReadCloser) Close() error { return nil }

func newReadCloser(content string) io.ReadCloser {
	return &stringReadCloser{strings.NewReader(content)}
}

// statLine builds a minimal but well-formed /proc/<pid>/stat line.
func statLine(pid int, comm string, state byte, utime, stime, vsize, rssPages uint64) string {
	// pid (comm) state ppid pgrp session tty tpgid flags minflt cminflt
	// majflt cmajflt utime stime cutime cstime prio nice threads itreal
	// starttime vsize rss ...
	return fmt.Sprintf("%d (%s) %c 1 1 1 0 -1 4194304 100 0 0 0 %d %d 0 0 20 0 1 0 1000 %d %d 18446744073709551615",
		pid, comm, state, utime, stime, vsize, rssPages)
}

// testCollector wires a collector against an in-memory process table.
type fakeTable struct {
	stats map[int]string
}

func newTestCollector(table *fakeTable, memTotalKB uint64) *Collector {
	c := New(nil)
	c.pageSize = 4096
	c.listPIDs = func() ([]int, error) {
		pids := make([]int, 0, len(table.stats))
		for pid := range table.stats {
			pids = append(pids, pid)
		}
		return pids, nil
	}
	c.openPIDStat = func(pid int) (io.ReadCloser, error) {
		line, ok := table.stats[pid]
		if !ok {
			return nil, os.ErrNotExist
		}
		return newReadCloser(line), nil
	}
	c.openMeminfo = func() (io.ReadCloser, error) {
		return newReadCloser(fmt.Sprintf("MemTotal: %d kB\n", memTotalKB)), nil
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

func findRow(t *testing.T, rows []Row, pid int) Row {
	t.Helper()
	for _, r := range rows {
		if r.PID == pid {
			return r
		}
	}
	t.Fatalf("pid %d not in rows", pid)
	return Row{}
}

func TestCollectFirstSeenRateIsZero(t *testing.T) {
	table := &fakeTable{stats: map[int]string{
		42: statLine(42, "nginx", 'S', 100, 50, 1 << 20, 256),
	}}
	c := newTestCollector(table, 4096*1024) // MemTotal 4 GiB in kB units

	data, _ := collectData(t, c)
	row := findRow(t, data.Rows, 42)
	if row.CPUPercent != 0 {
		t.Errorf("first-seen CPUPercent = %f, want 0", row.CPUPercent)
	}
	if row.Name != "nginx" {
		t.Errorf("Name = %q, want nginx", row.Name)
	}
	if row.StateLabel != "Sleeping" {
		t.Errorf("StateLabel = %q, want Sleeping", row.StateLabel)
	}
	if row.RSS != 256*4096 {
		t.Errorf("RSS = %d, want %d", row.RSS, uint64(256*4096))
	}
}

func TestCollectSecondPassDerivesRate(t *testing.T) {
	table := &fakeTable{stats: map[int]string{
		42: statLine(42, "worker", 'R', 100, 0, 1 << 20, 100),
	}}
	c := newTestCollector(table, 4096*1024)

	base := time.Now()
	c.now = func() time.Time { return base }
	collectData(t, c)

	// 30 more ticks over 1 second = 30%.
	table.stats[42] = statLine(42, "worker", 'R', 120, 10, 1<<20, 100)
	c.now = func() time.Time { return base.Add(time.Second) }

	data, _ := collectData(t, c)
	row := findRow(t, data.Rows, 42)
	if row.CPUPercent < 29.9 || row.CPUPercent > 30.1 {
		t.Errorf("CPUPercent = %f, want ~30", row.CPUPercent)
	}
}

func TestCollectVanishedProcessSkipped(t *testing.T) {
	table := &fakeTable{stats: map[int]string{
		1: statLine(1, "init", 'S', 10, 10, 1 << 20, 50),
		2: statLine(2, "ghost", 'R', 10, 10, 1 << 20, 50),
	}}
	c := newTestCollector(table, 4096*1024)
	// pid 2 vanishes between enumeration and detail read.
	orig := c.openPIDStat
	c.openPIDStat = func(pid int) (io.ReadCloser, error) {
		if pid == 2 {
			return nil, os.ErrNotExist
		}
		return orig(pid)
	}

	data, warnings := collectData(t, c)
	if len(data.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(data.Rows))
	}
	if data.Rows[0].PID != 1 {
		t.Errorf("surviving pid = %d, want 1", data.Rows[0].PID)
	}
	if len(warnings) == 0 {
		t.Error("expected a vanished-process warning")
	}
}

func TestCollectStateCounts(t *testing.T) {
	table := &fakeTable{stats: map[int]string{
		1: statLine(1, "a", 'R', 0, 0, 0, 0),
		2: statLine(2, "b", 'S', 0, 0, 0, 0),
		3: statLine(3, "c", 'D', 0, 0, 0, 0),
		4: statLine(4, "d", 'Z', 0, 0, 0, 0),
		5: statLine(5, "e", 'T', 0, 0, 0, 0),
		6: statLine(6, "f", 'I', 0, 0, 0, 0),
	}}
	c := newTestCollector(table, 4096*1024)

	data, _ := collectData(t, c)
	counts := data.Counts

	if counts.Total != 6 {
		t.Errorf("Total = %d, want 6", counts.Total)
	}
	if counts.Running != 1 {
		t.Errorf("Running = %d, want 1", counts.Running)
	}
	// 'D' folds into Sleeping for display but is tracked as Blocked.
	if counts.Sleeping != 2 {
		t.Errorf("Sleeping = %d, want 2 (S and D)", counts.Sleeping)
	}
	if counts.Blocked != 1 {
		t.Errorf("Blocked = %d, want 1", counts.Blocked)
	}
	if counts.Zombie != 1 || counts.Stopped != 1 || counts.Idle != 1 {
		t.Errorf("Zombie/Stopped/Idle = %d/%d/%d, want 1/1/1",
			counts.Zombie, counts.Stopped, counts.Idle)
	}
}

func TestParsePIDStatCommWithSpacesAndParens(t *testing.T) {
	c := New(nil)
	c.pageSize = 4096

	stat, err := c.parsePIDStat(statLine(7, "Web Content (x)", 'S', 5, 6, 1024, 2))
	if err != nil {
		t.Fatalf("parsePIDStat: %v", err)
	}
	if stat.Comm != "Web Content (x)" {
		t.Errorf("Comm = %q, want %q", stat.Comm, "Web Content (x)")
	}
	if stat.UTime != 5 || stat.STime != 6 {
		t.Errorf("UTime/STime = %d/%d, want 5/6", stat.UTime, stat.STime)
	}
	if stat.Ticks() != 11 {
		t.Errorf("Ticks = %d, want 11", stat.Ticks())
	}
}

func TestParsePIDStatMalformed(t *testing.T) {
	c := New(nil)
	for _, line := range []string{"", "12 no-parens R", "12 (x) R 1 2"} {
		if _, err := c.parsePIDStat(line); err == nil {
			t.Errorf("parsePIDStat(%q) = nil error, want failure", line)
		}
	}
}

func TestCollectEnumerationFailureIsWarning(t *testing.T) {
	c := New(nil)
	c.listPIDs = func() ([]int, error) { return nil, os.ErrPermission }

	res, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected enumeration warning")
	}
}
