package cpu

import (
	"context"
	"io"
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

func collectData(t *testing.T, c *Collector) Data {
	t.Helper()
	res, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	data, ok := res.Data.(Data)
	if !ok {
		t.Fatalf("Data type = %T, want cpu.Data", res.Data)
	}
	return data
}

func TestCollectSeedsThenDerives(t *testing.T) {
	c := New(nil)
	c.openProcStat = func() (io.ReadCloser, error) {
		return newReadCloser("cpu  100 0 0 900 0 0 0 0 0 0\nintr 12345\n"), nil
	}

	first := collectData(t, c)
	if first.Seeded {
		t.Error("first pass Seeded = true, want false")
	}
	if first.Usage != 0 {
		t.Errorf("first pass Usage = %f, want 0", first.Usage)
	}

	// user 100->150 with idle flat: totalDiff=50, idleDiff=0 => 100%.
	c.openProcStat = func() (io.ReadCloser, error) {
		return newReadCloser("cpu  150 0 0 900 0 0 0 0 0 0\n"), nil
	}

	second := collectData(t, c)
	if !second.Seeded {
		t.Error("second pass Seeded = false, want true")
	}
	if second.Usage != 100 {
		t.Errorf("second pass Usage = %f, want 100", second.Usage)
	}
}

func TestCollectIdleDelta(t *testing.T) {
	c := New(nil)
	c.openProcStat = func() (io.ReadCloser, error) {
		return newReadCloser("cpu  100 0 50 800 10 5 3 0 0 0\n"), nil
	}
	collectData(t, c)

	// totalDiff = 1111-968 = 143, idleDiff = (850+20)-(800+10) = 60.
	c.openProcStat = func() (io.ReadCloser, error) {
		return newReadCloser("cpu  150 0 75 850 20 10 6 0 0 0\n"), nil
	}

	data := collectData(t, c)
	want := float64(143-60) / 143 * 100
	if diff := data.Usage - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("Usage = %f, want %f", data.Usage, want)
	}
}

func TestCollectUnavailableSourceIsWarning(t *testing.T) {
	c := New(nil)
	c.openProcStat = func() (io.ReadCloser, error) {
		return nil, io.ErrUnexpectedEOF
	}

	res, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect returned error for unavailable source: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for unavailable /proc/stat")
	}
}

func TestCollectMalformedLineIsWarning(t *testing.T) {
	c := New(nil)
	c.openProcStat = func() (io.ReadCloser, error) {
		return newReadCloser("cpu  only two\n"), nil
	}

	res, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect returned error for malformed data: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for malformed cpu line")
	}
}

func TestCollectHonorsCancelledContext(t *testing.T) {
	c := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Collect(ctx); err == nil {
		t.Error("Collect with cancelled context returned nil error")
	}
}

func TestStatTotals(t *testing.T) {
	s := Stat{User: 1, Nice: 2, System: 3, Idle: 4, IOWait: 5, IRQ: 6, SoftIRQ: 7, Steal: 8, Guest: 100}
	if got := s.Total(); got != 36 {
		t.Errorf("Total = %d, want 36 (guest excluded)", got)
	}
	if got := s.IdleTotal(); got != 9 {
		t.Errorf("IdleTotal = %d, want 9", got)
	}
}

func TestParseStatLineShortKernel(t *testing.T) {
	// Pre-2.6 kernels emit only user/nice/system/idle.
	s, err := parseStatLine("cpu 10 20 30 40", time.Now())
	if err != nil {
		t.Fatalf("parseStatLine: %v", err)
	}
	if s.User != 10 || s.Idle != 40 || s.Steal != 0 {
		t.Errorf("unexpected parse: %+v", s)
	}
}
