// Package sysinfo samples host metrics (CPU, memory, load, disk) from /proc
// and statfs, and evaluates them against configured warning and critical
// thresholds. It performs no logging itself; callers feed findings to the
// event log.
package sysinfo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// DiskUsage describes one mounted filesystem.
type DiskUsage struct {
	Mount      string
	TotalBytes uint64
	FreeBytes  uint64
	Percent    float64
}

// Snapshot is one sampling of host metrics.
type Snapshot struct {
	Taken time.Time

	CPUPercent    float64
	MemoryPercent float64
	Load1         float64
	Load5         float64
	Load15        float64
	Disks         []DiskUsage
}

// Prober samples host metrics.
type Prober struct {
	// ProcPath is the procfs mount point, overridable for tests.
	ProcPath string
	// Mounts are the filesystems sampled for disk usage.
	Mounts []string
	// SampleGap separates the two /proc/stat reads behind CPUPercent.
	SampleGap time.Duration
}

// NewProber creates a Prober with standard paths: /proc and the root
// filesystem.
func NewProber() *Prober {
	return &Prober{
		ProcPath:  "/proc",
		Mounts:    []string{"/"},
		SampleGap: 200 * time.Millisecond,
	}
}

// Snapshot samples all metrics. The context bounds the CPU sampling gap.
func (p *Prober) Snapshot(ctx context.Context) (*Snapshot, error) {
	s := &Snapshot{Taken: time.Now()}

	cpu, err := p.cpuPercent(ctx)
	if err != nil {
		return nil, err
	}
	s.CPUPercent = cpu

	mem, err := os.ReadFile(filepath.Join(p.ProcPath, "meminfo"))
	if err != nil {
		return nil, fmt.Errorf("reading meminfo: %w", err)
	}
	if s.MemoryPercent, err = parseMeminfo(string(mem)); err != nil {
		return nil, err
	}

	load, err := os.ReadFile(filepath.Join(p.ProcPath, "loadavg"))
	if err != nil {
		return nil, fmt.Errorf("reading loadavg: %w", err)
	}
	if s.Load1, s.Load5, s.Load15, err = parseLoadAvg(string(load)); err != nil {
		return nil, err
	}

	for _, mount := range p.Mounts {
		du, err := diskUsage(mount)
		if err != nil {
			// A vanished mount point is not fatal to the snapshot.
			continue
		}
		s.Disks = append(s.Disks, du)
	}

	return s, nil
}

// cpuPercent derives utilisation from two /proc/stat samples.
func (p *Prober) cpuPercent(ctx context.Context) (float64, error) {
	first, err := p.readCPUTimes()
	if err != nil {
		return 0, err
	}

	select {
	case <-time.After(p.SampleGap):
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	second, err := p.readCPUTimes()
	if err != nil {
		return 0, err
	}
	return cpuDelta(first, second), nil
}

// cpuTimes holds the aggregate jiffy counters from the "cpu" line.
type cpuTimes struct {
	busy  uint64
	total uint64
}

func (p *Prober) readCPUTimes() (cpuTimes, error) {
	data, err := os.ReadFile(filepath.Join(p.ProcPath, "stat"))
	if err != nil {
		return cpuTimes{}, fmt.Errorf("reading stat: %w", err)
	}
	return parseCPULine(string(data))
}

// parseCPULine extracts the aggregate counters from /proc/stat contents.
// Busy time excludes idle and iowait.
func parseCPULine(contents string) (cpuTimes, error) {
	for _, line := range strings.Split(contents, "\n") {
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		fields := strings.Fields(line)[1:]
		if len(fields) < 5 {
			return cpuTimes{}, fmt.Errorf("malformed cpu line: %q", line)
		}
		var t cpuTimes
		for i, f := range fields {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return cpuTimes{}, fmt.Errorf("parsing cpu field %q: %w", f, err)
			}
			t.total += v
			// Fields 3 (idle) and 4 (iowait) are not busy time.
			if i != 3 && i != 4 {
				t.busy += v
			}
		}
		return t, nil
	}
	return cpuTimes{}, fmt.Errorf("no cpu line in stat contents")
}

// cpuDelta converts two samples into a utilisation percentage.
func cpuDelta(first, second cpuTimes) float64 {
	total := second.total - first.total
	if total == 0 {
		return 0
	}
	busy := second.busy - first.busy
	return float64(busy) / float64(total) * 100
}

// parseMeminfo derives used-memory percentage from MemTotal and
// MemAvailable.
func parseMeminfo(contents string) (float64, error) {
	var total, available uint64
	for _, line := range strings.Split(contents, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = v
		case "MemAvailable:":
			available = v
		}
	}
	if total == 0 {
		return 0, fmt.Errorf("no MemTotal in meminfo contents")
	}
	return float64(total-available) / float64(total) * 100, nil
}

// parseLoadAvg extracts the three load averages.
func parseLoadAvg(contents string) (float64, float64, float64, error) {
	fields := strings.Fields(contents)
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("malformed loadavg contents: %q", contents)
	}
	var loads [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("parsing load average %q: %w", fields[i], err)
		}
		loads[i] = v
	}
	return loads[0], loads[1], loads[2], nil
}

// diskUsage samples one mounted filesystem via statfs.
func diskUsage(mount string) (DiskUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(mount, &st); err != nil {
		return DiskUsage{}, fmt.Errorf("statfs %s: %w", mount, err)
	}

	bsize := uint64(st.Bsize)
	total := st.Blocks * bsize
	free := st.Bavail * bsize
	used := (st.Blocks - st.Bfree) * bsize

	du := DiskUsage{
		Mount:      mount,
		TotalBytes: total,
		FreeBytes:  free,
	}
	// Percent follows df: used against space visible to unprivileged users.
	if denom := used + free; denom > 0 {
		du.Percent = float64(used) / float64(denom) * 100
	}
	return du, nil
}
