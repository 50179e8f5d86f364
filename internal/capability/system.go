package capability

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// ErrNoGPU is returned by GPU testers that found no usable device.
var ErrNoGPU = errors.New("no gpu context")

// System reads the real process environment.
type System struct {
	// GPUTest acquires and releases a GPU context. Nil uses gg's registered
	// accelerator.
	GPUTest func() error
	// ConnectionHint is the configured network class, if any.
	ConnectionHint ConnectionClass
	// MeminfoPath defaults to /proc/meminfo.
	MeminfoPath string
}

var _ Environment = System{}

// GPU implements Environment.
func (s System) GPU() error {
	if s.GPUTest != nil {
		return s.GPUTest()
	}
	return AcceleratorGPUTest()
}

// AcceleratorGPUTest succeeds when a gg accelerator able to fill general
// paths has been registered. The CPU SDF accelerator only handles shapes
// and does not count.
func AcceleratorGPUTest() error {
	a := gg.Accelerator()
	if a == nil || !a.CanAccelerate(gg.AccelFill) {
		return ErrNoGPU
	}
	return nil
}

// MemoryGB implements Environment using /proc/meminfo where available.
func (s System) MemoryGB() (float64, bool) {
	path := s.MeminfoPath
	if path == "" {
		path = "/proc/meminfo"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	return parseMeminfo(data)
}

// Cores implements Environment.
func (System) Cores() (int, bool) {
	n := runtime.NumCPU()
	return n, n > 0
}

// Mobile implements Environment.
func (System) Mobile() bool {
	return runtime.GOOS == "android" || runtime.GOOS == "ios"
}

// Connection implements Environment.
func (s System) Connection() (ConnectionClass, bool) {
	if s.ConnectionHint == ConnectionUnknown {
		return ConnectionUnknown, false
	}
	return s.ConnectionHint, true
}

// parseMeminfo extracts MemTotal (kB) and rounds it to whole gigabytes the
// way browsers bucket deviceMemory.
func parseMeminfo(data []byte) (float64, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, "MemTotal:"))
		if len(fields) == 0 {
			return 0, false
		}
		kb, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || kb <= 0 {
			return 0, false
		}
		return memoryClass(kb / (1024 * 1024)), true
	}
	return 0, false
}

// memoryClass buckets gigabytes to the nearest power of two in [0.25, 8].
func memoryClass(gb float64) float64 {
	classes := []float64{0.25, 0.5, 1, 2, 4, 8}
	best := classes[0]
	for _, c := range classes {
		if gb >= c*0.75 {
			best = c
		}
	}
	return best
}

// ParseConnection maps a hint string to a class; unknown strings are
// ConnectionUnknown.
func ParseConnection(s string) ConnectionClass {
	switch c := ConnectionClass(strings.ToLower(strings.TrimSpace(s))); c {
	case ConnectionSlow2G, Connection2G, Connection3G, Connection4G:
		return c
	}
	return ConnectionUnknown
}
