package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func linearWidth(c float64) Probe {
	return func(size float64) Measurement { return Measurement{Width: size * c, Height: size} }
}

func linearHeight(k float64) Probe {
	return func(size float64) Measurement { return Measurement{Width: size, Height: size * k} }
}

func TestEvaluateStaysWithinRange(t *testing.T) {
	probes := map[string]Probe{
		"zero":   func(float64) Measurement { return Measurement{} },
		"linear": linearWidth(0.7),
		"tall":   linearHeight(3),
		"nan":    func(float64) Measurement { return Measurement{Width: math.NaN(), Height: math.NaN()} },
	}
	ranges := [][2]float64{{16, 512}, {1, 1}, {8.5, 40.25}, {10, 11}}
	avails := []float64{0, 0.5, 50, 100, 1e6}
	prevs := []float64{0, 3, 24, 2000}

	for name, probe := range probes {
		for _, r := range ranges {
			for _, mode := range []Mode{ModeWidth, ModeHeight, ModeBox} {
				for _, a := range avails {
					for _, p := range prevs {
						got := Evaluate(mode, r[0], r[1], p, probe, a, a)
						require.GreaterOrEqual(t, got, r[0], "%s mode=%s range=%v avail=%g prev=%g", name, mode, r, a, p)
						require.LessOrEqual(t, got, r[1], "%s mode=%s range=%v avail=%g prev=%g", name, mode, r, a, p)
					}
				}
			}
		}
	}
}

func TestEvaluateBoxFindsLargestFeasibleSize(t *testing.T) {
	for _, k := range []float64{0.5, 1, 1.2, 3} {
		for _, h := range []float64{0, 10, 33.3, 100, 700} {
			want := 16.0
			for s := 16.0; s <= 512; s++ {
				if s*k <= h {
					want = s
				}
			}
			got := Evaluate(ModeBox, 16, 512, 0, linearHeight(k), 0, h)
			require.Equal(t, want, got, "k=%g H=%g", k, h)
		}
	}
}

func TestEvaluateBoxScenario(t *testing.T) {
	got := Evaluate(ModeBox, 16, 512, 0, linearHeight(1), 0, 100)
	require.Equal(t, 100.0, got)
}

func TestEvaluateBoxReturnsMinWhenNothingFits(t *testing.T) {
	probes := 0
	probe := func(size float64) Measurement {
		probes++
		return Measurement{Height: size * 10}
	}
	got := Evaluate(ModeBox, 16, 512, 0, probe, 0, 20)
	require.Equal(t, 16.0, got)
	require.LessOrEqual(t, probes, 10, "binary search should take O(log n) probes")
}

func TestEvaluateBoxTerminatesOnHugeRange(t *testing.T) {
	got := Evaluate(ModeBox, 1, math.Inf(1), 0, linearHeight(1), 0, 50)
	require.Equal(t, 50.0, got)

	got = Evaluate(ModeBox, 1e300, 1e300, 0, linearHeight(1), 0, 50)
	require.Equal(t, 1e300, got)
}

// 上界超出 2^53 时中点不再是可精确表示的整数，搜索仍须收敛到可行的最大字号。
func TestEvaluateBoxSearchesBeyondIntegerPrecision(t *testing.T) {
	for _, hi := range []float64{512, 1e15, 1 << 53, 1e17, 1e300, math.MaxFloat64} {
		got := Evaluate(ModeBox, 16, hi, 0, linearHeight(1), 0, 100)
		require.Equal(t, 100.0, got, "max=%g", hi)
	}
}

func TestEvaluateWidthProportional(t *testing.T) {
	for _, c := range []float64{0.25, 1, 3.125} {
		for _, p := range []float64{20, 40, 100} {
			probe := linearWidth(c)
			want := (Config{MinSize: 16, MaxSize: 512}).Clamp(p * 300 / (p * c))
			got := Evaluate(ModeWidth, 16, 512, p, probe, 300, 0)
			require.InDelta(t, want, got, 1e-9, "c=%g p=%g", c, p)
		}
	}
}

func TestEvaluateWidthScenario(t *testing.T) {
	var seeds []float64
	probe := func(size float64) Measurement {
		seeds = append(seeds, size)
		return Measurement{Width: 50}
	}
	got := Evaluate(ModeWidth, 16, 512, 0, probe, 200, 0)
	require.Equal(t, 64.0, got)
	require.Equal(t, []float64{16}, seeds, "width fill probes once at the seed size")
}

func TestEvaluateWidthKeepsSeedForEmptyContent(t *testing.T) {
	empty := func(float64) Measurement { return Measurement{} }
	require.Equal(t, 16.0, Evaluate(ModeWidth, 16, 512, 0, empty, 200, 0))
	require.Equal(t, 42.0, Evaluate(ModeWidth, 16, 512, 42, empty, 200, 0))
}

func TestEvaluateHeightIdentity(t *testing.T) {
	called := false
	probe := func(float64) Measurement {
		called = true
		return Measurement{}
	}
	require.Equal(t, 80.0, Evaluate(ModeHeight, 16, 512, 0, probe, 0, 80))
	require.Equal(t, 16.0, Evaluate(ModeHeight, 16, 512, 0, probe, 0, 4))
	require.Equal(t, 512.0, Evaluate(ModeHeight, 16, 512, 0, probe, 0, 9000))
	require.False(t, called, "height fill must not probe")
}

func TestEvaluateInvertedRangeDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		got := Evaluate(ModeBox, 100, 10, 0, linearHeight(1), 0, 50)
		require.Equal(t, 100.0, got)
	})
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"":         ModeWidth,
		"width":    ModeWidth,
		"HEIGHT":   ModeHeight,
		" box ":    ModeBox,
		"diagonal": ModeWidth,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseMode(in), "input %q", in)
	}
	text, err := ModeBox.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "box", string(text))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.Error(t, Config{MinSize: 20, MaxSize: 10}.Validate())
	require.Error(t, Config{MinSize: 0, MaxSize: 10}.Validate())
	require.Error(t, Config{MinSize: 1, MaxSize: math.Inf(1)}.Validate())
}
