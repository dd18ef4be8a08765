package snapshot

import (
	"cmp"
	"context"
	"encoding/binary"
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colsort/codec"
	"github.com/hupe1980/colsort/column"
	"github.com/hupe1980/colsort/resource"
	"github.com/hupe1980/colsort/testutil"
)

func newTable(t *testing.T, n int) *column.Table[float64, int] {
	t.Helper()
	rng := testutil.NewRNG(42)
	tbl := column.NewTable[float64](column.RangeIndex(n))
	require.NoError(t, tbl.AddColumn("a", testutil.Uniform[float64](rng, n, 100)))
	require.NoError(t, tbl.AddColumn("b", testutil.Uniform[float64](rng, n, 100)))
	require.NoError(t, tbl.AddColumn("c", testutil.Uniform[float64](rng, n, 3)))
	return tbl
}

func assertTablesEqual[V, I cmp.Ordered](t *testing.T, want, got *column.Table[V, I]) {
	t.Helper()
	require.Equal(t, want.Names(), got.Names())
	assert.Equal(t, want.Index(), got.Index())
	for _, name := range want.Names() {
		w, err := want.Values(name)
		require.NoError(t, err)
		g, err := got.Values(name)
		require.NoError(t, err)
		assert.Equal(t, w, g, "column %s", name)
	}
}

// customCodec is gob under a name the registry does not know.
type customCodec struct {
	codec.Gob
}

func (customCodec) Name() string { return "custom" }

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	tbl := newTable(t, 1000)

	codecs := []codec.Codec{codec.GoJSON{}, codec.JSON{}, codec.Gob{}}
	compressions := []Compression{CompressionNone, CompressionLZ4, CompressionZSTD}

	for _, c := range codecs {
		for _, comp := range compressions {
			t.Run(c.Name()+"/"+comp.String(), func(t *testing.T) {
				data, err := Marshal(ctx, tbl, WithCodec(c), WithCompression(comp), WithBlockSize(4096))
				require.NoError(t, err)

				got, err := Unmarshal[float64, int](ctx, data)
				require.NoError(t, err)
				assertTablesEqual(t, tbl, got)
			})
		}
	}
}

func TestRoundTrip_EmptyTable(t *testing.T) {
	ctx := context.Background()
	tbl := column.NewTable[float64, int](nil)
	require.NoError(t, tbl.AddColumn("a", []float64{}))

	for _, c := range []codec.Codec{codec.GoJSON{}, codec.Gob{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := Marshal(ctx, tbl, WithCodec(c))
			require.NoError(t, err)

			got, err := Unmarshal[float64, int](ctx, data)
			require.NoError(t, err)
			assert.Equal(t, 0, got.Len())
			assert.Equal(t, []string{"a"}, got.Names())
		})
	}
}

func TestRoundTrip_NaN(t *testing.T) {
	ctx := context.Background()
	tbl := column.NewTable[float64]([]string{"w", "x", "y", "z"})
	require.NoError(t, tbl.AddColumn("v", []float64{1, math.NaN(), math.Inf(-1), 2}))

	data, err := Marshal(ctx, tbl, WithCodec(codec.Gob{}))
	require.NoError(t, err)

	got, err := Unmarshal[float64, string](ctx, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"w", "x", "y", "z"}, got.Index())

	values, err := got.Values("v")
	require.NoError(t, err)
	assert.Equal(t, 1.0, values[0])
	assert.True(t, math.IsNaN(values[1]))
	assert.True(t, math.IsInf(values[2], -1))
	assert.Equal(t, 2.0, values[3])

	// JSON has no NaN literal.
	_, err = Marshal(ctx, tbl, WithCodec(codec.GoJSON{}))
	require.Error(t, err)
}

func TestRead_Errors(t *testing.T) {
	ctx := context.Background()
	data, err := Marshal(ctx, newTable(t, 100))
	require.NoError(t, err)

	mutate := func(f func([]byte) []byte) []byte {
		return f(append([]byte(nil), data...))
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", mutate(func(b []byte) []byte { b[0] ^= 0xFF; return b }), ErrBadMagic},
		{"future version", mutate(func(b []byte) []byte { b[4] = formatVersion + 1; return b }), ErrUnsupportedVersion},
		{"zero version", mutate(func(b []byte) []byte { b[4] = 0; return b }), ErrUnsupportedVersion},
		{"bad compression", mutate(func(b []byte) []byte { b[6] = 9; return b }), ErrCorrupt},
		{"flipped body byte", mutate(func(b []byte) []byte { b[len(b)-1] ^= 0xFF; return b }), ErrCorrupt},
		{"truncated body", data[:len(data)-3], ErrCorrupt},
		{"truncated header", data[:10], ErrCorrupt},
		{"empty", nil, ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal[float64, int](ctx, tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRead_OversizedLengths(t *testing.T) {
	ctx := context.Background()
	data, err := Marshal(ctx, newTable(t, 100))
	require.NoError(t, err)

	bogus := header{
		version:     formatVersion,
		compression: CompressionNone,
		codecName:   "json",
		bodyLen:     1 << 32,
		payloadLen:  16,
	}
	headerOnly, err := bogus.marshal()
	require.NoError(t, err)

	bigPayload := append([]byte(nil), data...)
	binary.LittleEndian.PutUint64(bigPayload[16:24], 1<<36)

	tests := []struct {
		name string
		data []byte
	}{
		{"body length beyond data", headerOnly},
		{"body length beyond data with trailing bytes", append(headerOnly, "{}"...)},
		{"payload length beyond decoded body", bigPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)

			_, err := Unmarshal[float64, int](ctx, tt.data)
			require.ErrorIs(t, err, ErrCorrupt)

			runtime.ReadMemStats(&after)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
		})
	}
}

func TestRead_UnknownCodec(t *testing.T) {
	ctx := context.Background()
	tbl := newTable(t, 10)

	data, err := Marshal(ctx, tbl, WithCodec(customCodec{}))
	require.NoError(t, err)

	_, err = Unmarshal[float64, int](ctx, data)
	require.ErrorIs(t, err, ErrUnknownCodec)

	got, err := Unmarshal[float64, int](ctx, data, WithCodec(customCodec{}))
	require.NoError(t, err)
	assertTablesEqual(t, tbl, got)
}

func TestRead_WrongValueType(t *testing.T) {
	ctx := context.Background()
	data, err := Marshal(ctx, newTable(t, 10), WithCodec(codec.Gob{}))
	require.NoError(t, err)

	_, err = Unmarshal[float64, string](ctx, data)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestController(t *testing.T) {
	ctx := context.Background()
	tbl := newTable(t, 100)

	t.Run("MemoryLimit", func(t *testing.T) {
		data, err := Marshal(ctx, tbl)
		require.NoError(t, err)

		rc := resource.NewController(resource.Config{MemoryLimitBytes: 16})
		_, err = Unmarshal[float64, int](ctx, data, WithController(rc))
		require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	})

	t.Run("Released", func(t *testing.T) {
		rc := resource.NewController(resource.Config{
			MemoryLimitBytes:   64 << 20,
			IOLimitBytesPerSec: 64 << 20,
		})
		data, err := Marshal(ctx, tbl, WithController(rc))
		require.NoError(t, err)

		got, err := Unmarshal[float64, int](ctx, data, WithController(rc))
		require.NoError(t, err)
		assertTablesEqual(t, tbl, got)
		assert.Zero(t, rc.MemoryUsage())
	})

	t.Run("Cancelled", func(t *testing.T) {
		rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1})
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Marshal(cctx, tbl, WithController(rc))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("lz4")
	require.NoError(t, err)
	assert.Equal(t, CompressionLZ4, c)

	_, err = ParseCompression("brotli")
	require.Error(t, err)
}
