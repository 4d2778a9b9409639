// Package cli implements the bigint command.
package cli

import (
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/govalues/bigint"
	"github.com/govalues/bigint/internal/config"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the global flags.
type options struct {
	configFile string
	logLevel   string
	batchSize  int
	maxBlocks  int
	metrics    bool
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:          "bigint",
		Short:        "Arbitrary-precision integer arithmetic on pooled decimal digits",
		SilenceUsage: true,
	}

	def := config.Default()
	cmd.PersistentFlags().StringVar(&o.configFile, "config", "", "YAML config file (optional)")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log.level", def.LogLevel, "Log level: debug, info, warn, error")
	cmd.PersistentFlags().IntVar(&o.batchSize, "pool.batch-size", def.Pool.BatchSize, "Number of blocks added to the pool when its free list runs empty")
	cmd.PersistentFlags().IntVar(&o.maxBlocks, "pool.max-blocks", def.Pool.MaxBlocks, "Maximum number of pool blocks (0 means no limit)")
	cmd.PersistentFlags().BoolVar(&o.metrics, "metrics", false, "Print pool metrics in Prometheus text format after the command")

	cmd.AddCommand(demoCmd(o))
	cmd.AddCommand(calcCmd(o))
	cmd.AddCommand(statsCmd(o))
	return cmd
}

// session is the pool and its instrumentation shared by a single command run.
type session struct {
	pool    *bigint.Pool
	logger  log.Logger
	reg     *prometheus.Registry
	metrics bool
	out     io.Writer
}

// newSession loads the config file, applies the flags set on cmd on top of it
// and creates the pool.
func (o *options) newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log.level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("pool.batch-size") {
		cfg.Pool.BatchSize = o.batchSize
	}
	if flags.Changed("pool.max-blocks") {
		cfg.Pool.MaxBlocks = o.maxBlocks
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	reg := prometheus.NewRegistry()
	pool, err := bigint.NewPool(cfg.Pool, log.With(logger, "component", "pool"), reg)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}
	level.Debug(logger).Log("msg", "pool created", "batch_size", cfg.Pool.BatchSize, "max_blocks", cfg.Pool.MaxBlocks)

	return &session{
		pool:    pool,
		logger:  logger,
		reg:     reg,
		metrics: o.metrics,
		out:     cmd.OutOrStdout(),
	}, nil
}

// close prints the metrics if requested and closes the pool.
func (s *session) close() error {
	if s.metrics {
		if err := writeMetrics(s.out, s.reg); err != nil {
			return err
		}
	}
	return s.pool.Close()
}

func newLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, levelOption(lvl))
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case config.LevelDebug:
		return level.AllowDebug()
	case config.LevelWarn:
		return level.AllowWarn()
	case config.LevelError:
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// writeMetrics writes every metric family gathered from reg in the
// Prometheus text exposition format.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}
