package bigint

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig_Validate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []PoolConfig{
			DefaultPoolConfig(),
			{BatchSize: 1},
			{BatchSize: 10, MaxBlocks: 5},
		}
		for _, cfg := range tests {
			assert.NoError(t, cfg.Validate(), "%+v", cfg)
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]PoolConfig{
			"batch 1": {},
			"batch 2": {BatchSize: -1},
			"max":     {BatchSize: 1, MaxBlocks: -1},
		}
		for name, cfg := range tests {
			assert.Error(t, cfg.Validate(), name)
			_, err := NewPool(cfg, nil, nil)
			assert.Error(t, err, name)
		}
	})
}

func TestNewPool(t *testing.T) {
	p, err := NewPool(DefaultPoolConfig(), nil, nil)
	require.NoError(t, err)
	defer p.Close()

	want := PoolStats{
		Capacity: DefaultBatchSize,
		Free:     DefaultBatchSize,
		InUse:    0,
		Batches:  1,
		Bytes:    DefaultBatchSize * uint64(BlockSize),
	}
	assert.Equal(t, want, p.Stats())
}

func TestPool_Allocate(t *testing.T) {
	p := newTestPool(t)

	x, err := p.Allocate()
	require.NoError(t, err)
	assert.Nil(t, x.next, "allocated block is unlinked")
	assert.Equal(t, 0, x.Size())
	assert.Equal(t, DefaultBatchSize-1, p.Stats().Free)

	y, err := p.Allocate()
	require.NoError(t, err)
	assert.NotSame(t, x, y)
	assert.Equal(t, 2, p.Stats().InUse)
}

func TestPool_LIFO(t *testing.T) {
	p := newTestPool(t)

	x, err := p.Allocate()
	require.NoError(t, err)
	y, err := p.Allocate()
	require.NoError(t, err)

	p.Free(x)
	p.Free(y)

	z, err := p.Allocate()
	require.NoError(t, err)
	assert.Same(t, y, z, "most recently freed block is reused first")
	z, err = p.Allocate()
	require.NoError(t, err)
	assert.Same(t, x, z)
}

func TestPool_Free(t *testing.T) {
	p := newTestPool(t)

	for i := 0; i < 3*DefaultBatchSize; i++ {
		x, err := p.Allocate()
		require.NoError(t, err)
		p.Free(x)
	}
	assert.Equal(t, DefaultBatchSize, p.Stats().Free)
	assert.Equal(t, 1, p.Stats().Batches)

	x := MustParse(p, "12345")
	x.Release()
	y, err := p.Allocate()
	require.NoError(t, err)
	assert.Same(t, x, y)
	assert.Nil(t, y.digs, "freed block is cleared")
	assert.Nil(t, y.alloc)

	p.Free(nil)
	assert.Equal(t, DefaultBatchSize-1, p.Stats().Free)
}

func TestPool_Grow(t *testing.T) {
	p, err := NewPool(PoolConfig{BatchSize: 2}, nil, nil)
	require.NoError(t, err)
	defer p.Close()

	xs := make([]*Int, 0, 5)
	for i := 0; i < 5; i++ {
		x, err := p.Allocate()
		require.NoError(t, err)
		xs = append(xs, x)
	}
	want := PoolStats{
		Capacity: 6,
		Free:     1,
		InUse:    5,
		Batches:  3,
		Bytes:    6 * uint64(BlockSize),
	}
	assert.Equal(t, want, p.Stats())

	for _, x := range xs {
		p.Free(x)
	}
	assert.Equal(t, 6, p.Stats().Free)
	assert.Equal(t, 0, p.Stats().InUse)
}

func TestPool_Exhausted(t *testing.T) {
	p, err := NewPool(PoolConfig{BatchSize: 4, MaxBlocks: 6}, nil, nil)
	require.NoError(t, err)
	defer p.Close()

	xs := make([]*Int, 0, 6)
	for i := 0; i < 6; i++ {
		x, err := p.Allocate()
		require.NoError(t, err)
		xs = append(xs, x)
	}
	assert.Equal(t, 6, p.Stats().Capacity, "last batch is cut to the block limit")
	assert.Equal(t, 2, p.Stats().Batches)

	_, err = p.Allocate()
	assert.True(t, errors.Is(err, ErrPoolExhausted), "Allocate() = %v", err)

	p.Free(xs[0])
	x, err := p.Allocate()
	require.NoError(t, err)
	assert.Same(t, xs[0], x)
}

func TestPool_Close(t *testing.T) {
	p, err := NewPool(PoolConfig{BatchSize: 4}, nil, nil)
	require.NoError(t, err)

	x, err := p.Allocate()
	require.NoError(t, err)

	require.NoError(t, p.Close())
	assert.Equal(t, PoolStats{Capacity: 1, InUse: 1, Batches: 1, Bytes: uint64(BlockSize)}, p.Stats())

	_, err = p.Allocate()
	assert.True(t, errors.Is(err, ErrPoolClosed), "Allocate() = %v", err)
	_, err = Parse(p, "1")
	assert.True(t, errors.Is(err, ErrPoolClosed), "Parse() = %v", err)

	p.Free(x)
	assert.Equal(t, 0, p.Stats().Free, "blocks freed after close are dropped")

	assert.NoError(t, p.Close())
}

func TestPool_Metrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	p, err := NewPool(PoolConfig{BatchSize: 2, MaxBlocks: 4}, nil, reg)
	require.NoError(t, err)

	xs := make([]*Int, 0, 4)
	for i := 0; i < 4; i++ {
		x, err := p.Allocate()
		require.NoError(t, err)
		xs = append(xs, x)
	}
	_, err = p.Allocate()
	require.Error(t, err)
	p.Free(xs[0])

	assert.Equal(t, 4.0, testutil.ToFloat64(p.metrics.allocations))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.frees))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.metrics.batches))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.exhausted))

	require.NoError(t, p.Close())

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
		# HELP bigint_pool_capacity_blocks Number of blocks allocated by the pool.
		# TYPE bigint_pool_capacity_blocks gauge
		bigint_pool_capacity_blocks 3
		# HELP bigint_pool_free_blocks Number of blocks on the free list.
		# TYPE bigint_pool_free_blocks gauge
		bigint_pool_free_blocks 0
	`), "bigint_pool_capacity_blocks", "bigint_pool_free_blocks"))
}

func TestPool_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)

	p, err := NewPool(PoolConfig{BatchSize: 1, MaxBlocks: 1}, logger, nil)
	require.NoError(t, err)
	_, err = p.Allocate()
	require.NoError(t, err)
	_, err = p.Allocate()
	require.Error(t, err)
	require.NoError(t, p.Close())

	out := buf.String()
	assert.Contains(t, out, `level=debug msg="pool replenished" blocks=1 capacity=1`)
	assert.Contains(t, out, `level=warn msg="pool exhausted" capacity=1 max_blocks=1`)
	assert.Contains(t, out, `level=debug msg="pool closed" dropped=0 in_use=1`)
}
