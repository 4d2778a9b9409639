package bigint

import (
	"unsafe"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// BlockSize is the size in bytes of every block handed out by [Pool].
	// A block holds either one [Int] or a free-list link.
	BlockSize = max(unsafe.Sizeof(Int{}), unsafe.Sizeof(uintptr(0)))

	// DefaultBatchSize is the number of blocks [Pool] adds to its free list
	// each time the list runs empty.
	DefaultBatchSize = 100
)

var (
	ErrPoolExhausted = errors.New("pool exhausted")
	ErrPoolClosed    = errors.New("pool closed")

	errInvalidPoolConfig = errors.New("invalid pool config")
)

// Allocator supplies the storage of [Int] values.
// Allocate returns a zero Int; Free takes it back once the value is released.
type Allocator interface {
	Allocate() (*Int, error)
	Free(x *Int)
}

// HeapAllocator allocates every [Int] on the Go heap and leaves
// freed values to the garbage collector.
type HeapAllocator struct{}

func (HeapAllocator) Allocate() (*Int, error) {
	return new(Int), nil
}

func (HeapAllocator) Free(*Int) {}

// PoolConfig configures a [Pool].
type PoolConfig struct {
	// BatchSize is the number of blocks allocated at once when the free list is empty.
	BatchSize int `yaml:"batch_size"`
	// MaxBlocks caps the total number of blocks. 0 means no limit.
	MaxBlocks int `yaml:"max_blocks"`
}

// DefaultPoolConfig returns a config with [DefaultBatchSize] and no block limit.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{BatchSize: DefaultBatchSize}
}

// Validate checks that the config can be used by [NewPool].
func (cfg PoolConfig) Validate() error {
	switch {
	case cfg.BatchSize < 1:
		return errors.Wrapf(errInvalidPoolConfig, "batch size %v is less than 1", cfg.BatchSize)
	case cfg.MaxBlocks < 0:
		return errors.Wrapf(errInvalidPoolConfig, "max blocks %v is negative", cfg.MaxBlocks)
	}
	return nil
}

// PoolStats is a snapshot of the block accounting of a [Pool].
type PoolStats struct {
	Capacity int    // blocks on the free list or owned by live values
	Free     int    // blocks on the free list
	InUse    int    // blocks owned by live values
	Batches  int    // number of replenishments
	Bytes    uint64 // Capacity * BlockSize
}

type poolMetrics struct {
	allocations prometheus.Counter
	frees       prometheus.Counter
	batches     prometheus.Counter
	exhausted   prometheus.Counter
	capacity    prometheus.Gauge
	free        prometheus.Gauge
}

func newPoolMetrics(reg prometheus.Registerer) *poolMetrics {
	return &poolMetrics{
		allocations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "bigint_pool_allocations_total",
			Help: "Total number of blocks handed out by the pool.",
		}),
		frees: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "bigint_pool_frees_total",
			Help: "Total number of blocks returned to the pool.",
		}),
		batches: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "bigint_pool_batches_total",
			Help: "Total number of times the free list was replenished.",
		}),
		exhausted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "bigint_pool_exhausted_total",
			Help: "Total number of allocations rejected because the block limit was reached.",
		}),
		capacity: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "bigint_pool_capacity_blocks",
			Help: "Number of blocks allocated by the pool.",
		}),
		free: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "bigint_pool_free_blocks",
			Help: "Number of blocks on the free list.",
		}),
	}
}

// Pool is a fixed-block allocator for [Int] values.
// Released blocks are kept on a singly linked free list and reused in LIFO order:
// the most recently freed block is the next one handed out.
// When the list is empty, it is replenished with a batch of new blocks.
//
// Pool is not safe for concurrent use by multiple goroutines.
type Pool struct {
	cfg     PoolConfig
	logger  log.Logger
	metrics *poolMetrics

	head     *Int // top of the free list
	free     int
	capacity int
	batches  int
	closed   bool
}

// NewPool returns a pool with one batch of blocks already on its free list.
// A nil logger discards logs; a nil registerer leaves metrics unregistered.
func NewPool(cfg PoolConfig, logger log.Logger, reg prometheus.Registerer) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	p := &Pool{
		cfg:     cfg,
		logger:  logger,
		metrics: newPoolMetrics(reg),
	}
	if err := p.grow(); err != nil {
		return nil, err
	}
	return p, nil
}

// grow links a new batch of blocks and installs it as the free list.
func (p *Pool) grow() error {
	n := p.cfg.BatchSize
	if p.cfg.MaxBlocks > 0 {
		n = min(n, p.cfg.MaxBlocks-p.capacity)
		if n <= 0 {
			p.metrics.exhausted.Inc()
			level.Warn(p.logger).Log("msg", "pool exhausted", "capacity", p.capacity, "max_blocks", p.cfg.MaxBlocks)
			return errors.Wrapf(ErrPoolExhausted, "all %v blocks in use", p.capacity)
		}
	}

	blocks := make([]Int, n)
	for i := 0; i < n-1; i++ {
		blocks[i].next = &blocks[i+1]
	}
	blocks[n-1].next = p.head
	p.head = &blocks[0]

	p.free += n
	p.capacity += n
	p.batches++
	p.metrics.batches.Inc()
	p.metrics.capacity.Set(float64(p.capacity))
	p.metrics.free.Set(float64(p.free))
	level.Debug(p.logger).Log("msg", "pool replenished", "blocks", n, "capacity", p.capacity)
	return nil
}

// Allocate pops a block from the free list, replenishing the list first if it is empty.
func (p *Pool) Allocate() (*Int, error) {
	if p.closed {
		return nil, ErrPoolClosed
	}
	if p.head == nil {
		if err := p.grow(); err != nil {
			return nil, err
		}
	}
	x := p.head
	p.head = x.next
	x.next = nil
	p.free--
	p.metrics.allocations.Inc()
	p.metrics.free.Set(float64(p.free))
	return x, nil
}

// Free pushes x onto the free list.
// Blocks freed after [Pool.Close] are left to the garbage collector.
func (p *Pool) Free(x *Int) {
	if x == nil || p.closed {
		return
	}
	*x = Int{next: p.head}
	p.head = x
	p.free++
	p.metrics.frees.Inc()
	p.metrics.free.Set(float64(p.free))
}

// Stats returns the current block accounting of the pool.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Capacity: p.capacity,
		Free:     p.free,
		InUse:    p.capacity - p.free,
		Batches:  p.batches,
		Bytes:    uint64(p.capacity) * uint64(BlockSize),
	}
}

// Close drops every block on the free list.
// Blocks still owned by live values are not tracked and stay counted in
// [PoolStats.Capacity] and [PoolStats.InUse].
// Subsequent calls to [Pool.Allocate] return [ErrPoolClosed].
func (p *Pool) Close() error {
	if p.closed {
		return nil
	}
	dropped := 0
	for p.head != nil {
		x := p.head
		p.head = x.next
		x.next = nil
		dropped++
	}
	p.free = 0
	p.capacity -= dropped
	p.closed = true
	p.metrics.free.Set(0)
	p.metrics.capacity.Set(float64(p.capacity))
	level.Debug(p.logger).Log("msg", "pool closed", "dropped", dropped, "in_use", p.capacity)
	return nil
}
