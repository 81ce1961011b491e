// Package network samples per-interface RX/TX counters from
// /proc/net/dev and pairs them with IPv4 addresses from the interface
// table. Byte rates are derived by tracking each interface's cumulative
// counters across passes.
package network

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	gnet "github.com/shirou/gopsutil/v4/net"

	"github.com/stkisengese/desktop-system-monitor/collectors"
	"github.com/stkisengese/desktop-system-monitor/stats"
	"github.com/stkisengese/desktop-system-monitor/tracker"
)

const (
	collectorName        = "network"
	collectorDescription = "Per-interface RX/TX counters from /proc/net/dev"
)

// RX holds the receive-side counters of one /proc/net/dev line.
type RX struct {
	Bytes      uint64
	Packets    uint64
	Errs       uint64
	Drop       uint64
	Fifo       uint64
	Frame      uint64
	Compressed uint64
	Multicast  uint64
}

// TX holds the transmit-side counters of one /proc/net/dev line.
type TX struct {
	Bytes      uint64
	Packets    uint64
	Errs       uint64
	Drop       uint64
	Fifo       uint64
	Colls      uint64
	Carrier    uint64
	Compressed uint64
}

// Counters is one raw per-interface snapshot.
type Counters struct {
	Name string
	RX   RX
	TX   TX
}

// Row is one derived network table entry.
type Row struct {
	Name string
	IPv4 string

	RX RX
	TX TX

	// RXRate and TXRate are bytes per second since the previous pass;
	// 0 for a first-seen interface.
	RXRate float64
	TXRate float64

	// RXProgress and TXProgress map the cumulative byte counters onto
	// [0,1] against the fixed visualization scale.
	RXProgress float64
	TXProgress float64
}

// Data is the derived output of one network pass, ordered by interface
// name for stable rendering.
type Data struct {
	Rows []Row
}

// ifCounters is the raw state tracked per interface for rate derivation.
type ifCounters struct {
	rx uint64
	tx uint64
}

// Collector reads /proc/net/dev and the system interface table.
type Collector struct {
	logger *slog.Logger

	rates *tracker.Table[string, ifCounters]

	// Overridable for tests.
	openNetDev     func() (io.ReadCloser, error)
	listInterfaces func() (gnet.InterfaceStatList, error)
	now            func() time.Time
}

// New creates a network collector. A nil logger discards log output.
func New(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		logger: logger,
		rates:  tracker.New[string, ifCounters](counterRate, 0),
		openNetDev: func() (io.ReadCloser, error) {
			return os.Open("/proc/net/dev")
		},
		listInterfaces: gnet.Interfaces,
		now:            time.Now,
	}
}

// counterRate derives a combined rx+tx byte rate; the per-direction
// rates are recomputed from the same elapsed time in Collect. A counter
// that moved backwards (interface reset) yields 0.
func counterRate(prev, curr ifCounters, elapsed time.Duration) float64 {
	if elapsed <= 0 || curr.rx < prev.rx || curr.tx < prev.tx {
		return 0
	}
	return float64((curr.rx-prev.rx)+(curr.tx-prev.tx)) / elapsed.Seconds()
}

// Name returns the collector's unique identifier.
func (c *Collector) Name() string { return collectorName }

// Description returns what this collector samples.
func (c *Collector) Description() string { return collectorDescription }

// Collect reads interface counters and derives per-interface rates.
// Address enumeration failure degrades to rows without IPv4 addresses.
func (c *Collector) Collect(ctx context.Context) (*collectors.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := c.now()
	var warnings []string

	counters, err := c.readNetDev()
	if err != nil {
		return &collectors.Result{
			Collector: collectorName,
			Timestamp: now,
			Data:      Data{},
			Warnings:  []string{fmt.Sprintf("network: %v", err)},
		}, nil
	}

	addrs, warn := c.interfaceAddrs()
	if warn != "" {
		warnings = append(warnings, warn)
	}

	data := Data{Rows: make([]Row, 0, len(counters))}
	for _, cnt := range counters {
		prev, seen := c.rates.Lookup(cnt.Name)
		c.rates.Upsert(cnt.Name, ifCounters{rx: cnt.RX.Bytes, tx: cnt.TX.Bytes}, now)

		row := Row{
			Name:       cnt.Name,
			IPv4:       addrs[cnt.Name],
			RX:         cnt.RX,
			TX:         cnt.TX,
			RXProgress: stats.NetworkProgress(cnt.RX.Bytes),
			TXProgress: stats.NetworkProgress(cnt.TX.Bytes),
		}
		if seen {
			elapsed := now.Sub(prev.UpdatedAt)
			row.RXRate = byteRate(prev.Raw.rx, cnt.RX.Bytes, elapsed)
			row.TXRate = byteRate(prev.Raw.tx, cnt.TX.Bytes, elapsed)
		}
		data.Rows = append(data.Rows, row)
	}

	sort.Slice(data.Rows, func(i, j int) bool { return data.Rows[i].Name < data.Rows[j].Name })

	c.logger.Debug("network sampled", "interfaces", len(data.Rows))

	return &collectors.Result{
		Collector: collectorName,
		Timestamp: now,
		Data:      data,
		Warnings:  warnings,
	}, nil
}

// byteRate computes bytes per second between two cumulative readings.
func byteRate(prev, curr uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 || curr < prev {
		return 0
	}
	return float64(curr-prev) / elapsed.Seconds()
}

// readNetDev parses /proc/net/dev. The first two lines are column
// headers; each following line is "iface: <8 rx values> <8 tx values>".
// Lines that do not match the expected shape are skipped.
func (c *Collector) readNetDev() ([]Counters, error) {
	f, err := c.openNetDev()
	if err != nil {
		return nil, fmt.Errorf("open /proc/net/dev: %w", err)
	}
	defer f.Close()

	var out []Counters
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		if lineNo <= 2 {
			continue
		}
		cnt, ok := parseNetDevLine(scanner.Text())
		if !ok {
			continue
		}
		out = append(out, cnt)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan /proc/net/dev: %w", err)
	}
	return out, nil
}

// parseNetDevLine parses one interface line of /proc/net/dev.
func parseNetDevLine(line string) (Counters, bool) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return Counters{}, false
	}
	name := strings.TrimSpace(line[:colon])
	if name == "" {
		return Counters{}, false
	}

	fields := strings.Fields(line[colon+1:])
	if len(fields) < 16 {
		return Counters{}, false
	}

	values := make([]uint64, 16)
	for i := range values {
		v, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return Counters{}, false
		}
		values[i] = v
	}

	return Counters{
		Name: name,
		RX: RX{
			Bytes: values[0], Packets: values[1], Errs: values[2], Drop: values[3],
			Fifo: values[4], Frame: values[5], Compressed: values[6], Multicast: values[7],
		},
		TX: TX{
			Bytes: values[8], Packets: values[9], Errs: values[10], Drop: values[11],
			Fifo: values[12], Colls: values[13], Carrier: values[14], Compressed: values[15],
		},
	}, true
}

// interfaceAddrs maps interface name to its first IPv4 address.
func (c *Collector) interfaceAddrs() (map[string]string, string) {
	list, err := c.listInterfaces()
	if err != nil {
		return nil, fmt.Sprintf("network: enumerate interfaces: %v", err)
	}

	addrs := make(map[string]string, len(list))
	for _, iface := range list {
		for _, a := range iface.Addrs {
			ip := a.Addr
			if slash := strings.IndexByte(ip, '/'); slash >= 0 {
				ip = ip[:slash]
			}
			parsed := net.ParseIP(ip)
			if parsed == nil || parsed.To4() == nil {
				continue
			}
			addrs[iface.Name] = parsed.String()
			break
		}
	}
	return addrs, ""
}

// Compile-time interface compliance check.
var _ collectors.Collector = (*Collector)(nil)
