package capability

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnv struct {
	gpu        func() error
	memory     float64
	memoryOK   bool
	cores      int
	coresOK    bool
	mobile     bool
	connection ConnectionClass
}

func (f fakeEnv) GPU() error {
	if f.gpu == nil {
		return nil
	}
	return f.gpu()
}
func (f fakeEnv) MemoryGB() (float64, bool) { return f.memory, f.memoryOK }
func (f fakeEnv) Cores() (int, bool)        { return f.cores, f.coresOK }
func (f fakeEnv) Mobile() bool              { return f.mobile }
func (f fakeEnv) Connection() (ConnectionClass, bool) {
	return f.connection, f.connection != ConnectionUnknown
}

func TestProbeDesktop(t *testing.T) {
	s := Probe(fakeEnv{memory: 8, memoryOK: true, cores: 8, coresOK: true, connection: Connection4G})

	assert.True(t, s.HasGPUContext)
	assert.Equal(t, TierHigh, s.Tier())
	assert.False(t, s.Constrained())
}

func TestProbeMissingSignalsUseDefaults(t *testing.T) {
	s := Probe(fakeEnv{gpu: func() error { return ErrNoGPU }})

	assert.False(t, s.HasGPUContext)
	assert.Equal(t, float64(DefaultMemoryGB), s.MemoryGB)
	assert.Equal(t, DefaultCores, s.Cores)
	assert.Equal(t, ConnectionUnknown, s.Connection)
	assert.Equal(t, TierMedium, s.Tier())
	assert.True(t, s.Constrained())
}

func TestProbeRecoversFromGPUPanic(t *testing.T) {
	var s Score
	require.NotPanics(t, func() {
		s = Probe(fakeEnv{gpu: func() error { panic("driver exploded") }, cores: 8, coresOK: true})
	})
	assert.False(t, s.HasGPUContext)
}

func TestScoreTier(t *testing.T) {
	cases := []struct {
		name  string
		score Score
		want  Tier
	}{
		{"gpu desktop", Score{HasGPUContext: true, MemoryGB: 8, Cores: 8}, TierHigh},
		{"gpu mobile fast", Score{HasGPUContext: true, MemoryGB: 4, Cores: 8, Mobile: true}, TierHigh},
		{"gpu mobile weak", Score{HasGPUContext: true, MemoryGB: 2, Cores: 2, Mobile: true}, TierMedium},
		{"gpu weak slow", Score{HasGPUContext: true, MemoryGB: 1, Cores: 2, Mobile: true, Connection: Connection2G}, TierLow},
		{"no gpu workstation", Score{MemoryGB: 16, Cores: 16}, TierHigh},
		{"no gpu laptop", Score{MemoryGB: 4, Cores: 4}, TierMedium},
		{"no gpu tiny", Score{MemoryGB: 1, Cores: 1}, TierLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.score.Tier())
		})
	}
}

func TestParseTier(t *testing.T) {
	for _, want := range []Tier{TierLow, TierMedium, TierHigh} {
		got, err := ParseTier(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseTier("ultra")
	assert.Error(t, err)
	assert.Equal(t, "Tier(7)", Tier(7).String())
}

func TestSystemMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meminfo")
	require.NoError(t, os.WriteFile(path, []byte("MemTotal:       16303428 kB\nMemFree: 1 kB\n"), 0o644))

	gb, ok := System{MeminfoPath: path}.MemoryGB()
	require.True(t, ok)
	assert.Equal(t, 8.0, gb)

	_, ok = System{MeminfoPath: filepath.Join(t.TempDir(), "missing")}.MemoryGB()
	assert.False(t, ok)
}

func TestParseMeminfo(t *testing.T) {
	gb, ok := parseMeminfo([]byte("MemTotal: 3900000 kB\n"))
	require.True(t, ok)
	assert.Equal(t, 4.0, gb)

	_, ok = parseMeminfo([]byte("MemTotal: lots\n"))
	assert.False(t, ok)
	_, ok = parseMeminfo([]byte("Cached: 1 kB\n"))
	assert.False(t, ok)
}

func TestSystemSignals(t *testing.T) {
	sys := System{
		GPUTest:        func() error { return errors.New("headless") },
		ConnectionHint: ParseConnection("3G"),
	}
	assert.Error(t, sys.GPU())

	c, ok := sys.Connection()
	require.True(t, ok)
	assert.Equal(t, Connection3G, c)

	_, ok = System{}.Connection()
	assert.False(t, ok)

	n, ok := sys.Cores()
	assert.True(t, ok)
	assert.Positive(t, n)

	assert.Equal(t, ConnectionUnknown, ParseConnection("carrier pigeon"))
	assert.True(t, Connection2G.Slow())
	assert.False(t, Connection4G.Slow())
}

func TestAcceleratorGPUTest(t *testing.T) {
	// No GPU backend is imported by this package, so nothing is registered.
	assert.ErrorIs(t, AcceleratorGPUTest(), ErrNoGPU)

	require.NoError(t, gg.RegisterAccelerator(&gg.SDFAccelerator{}))
	assert.ErrorIs(t, AcceleratorGPUTest(), ErrNoGPU, "shape-only accelerator is not a gpu")
}
