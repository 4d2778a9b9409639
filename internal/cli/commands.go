package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/govalues/bigint"
)

var errUnknownOperator = errors.New("unknown operator")

// run wraps a command body with the lifetime of a session.
func run(o *options, fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		s, err := o.newSession(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := s.close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, s, args)
	}
}

func demoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Print sample sums, differences, products and quotients",
		Args:  cobra.NoArgs,
		RunE: run(o, func(cmd *cobra.Command, s *session, _ []string) error {
			return demo(cmd.OutOrStdout(), s.pool)
		}),
	}
}

func calcCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "calc <x> <op> <y>",
		Short:   "Evaluate x op y, where op is one of + - * /",
		Example: "  bigint calc 8888 - 9999",
		Args:    cobra.ExactArgs(3),
		RunE: run(o, func(cmd *cobra.Command, s *session, args []string) error {
			z, err := calc(s.pool, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), z)
			return nil
		}),
	}
}

func statsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Run the demo on a fresh pool and print its block accounting",
		Args:  cobra.NoArgs,
		RunE: run(o, func(cmd *cobra.Command, s *session, _ []string) error {
			if err := demo(io.Discard, s.pool); err != nil {
				return err
			}
			st := s.pool.Stats()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "block size: %v\n", humanize.Bytes(uint64(bigint.BlockSize)))
			fmt.Fprintf(w, "capacity:   %v blocks (%v)\n", humanize.Comma(int64(st.Capacity)), humanize.Bytes(st.Bytes))
			fmt.Fprintf(w, "free:       %v blocks\n", humanize.Comma(int64(st.Free)))
			fmt.Fprintf(w, "in use:     %v blocks\n", humanize.Comma(int64(st.InUse)))
			fmt.Fprintf(w, "batches:    %v\n", humanize.Comma(int64(st.Batches)))
			return nil
		}),
	}
}

// demo prints the sum, both differences, the product and the quotient of
// 8888 and 9999.
func demo(w io.Writer, a bigint.Allocator) error {
	exprs := [][3]string{
		{"8888", "+", "9999"},
		{"8888", "-", "9999"},
		{"9999", "-", "8888"},
		{"8888", "*", "9999"},
		{"9999", "/", "8888"},
	}
	for _, e := range exprs {
		z, err := calc(a, e[0], e[1], e[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v %v %v = %v\n", e[0], e[1], e[2], z)
	}
	return nil
}

// calc evaluates x op y and returns the result as text.
// All intermediate values are released before calc returns.
func calc(a bigint.Allocator, xs, op, ys string) (string, error) {
	x, err := bigint.Parse(a, xs)
	if err != nil {
		return "", errors.Wrap(err, "parse left operand")
	}
	defer x.Release()
	y, err := bigint.Parse(a, ys)
	if err != nil {
		return "", errors.Wrap(err, "parse right operand")
	}
	defer y.Release()

	var z *bigint.Int
	switch op {
	case "+":
		z, err = x.Add(y)
	case "-":
		z, err = x.Sub(y)
	case "*", "x":
		z, err = x.Mul(y)
	case "/":
		var q int
		q, err = x.Quo(y)
		if err == nil {
			return strconv.Itoa(q), nil
		}
	default:
		return "", errors.Wrapf(errUnknownOperator, "%q", op)
	}
	if err != nil {
		return "", errors.Wrapf(err, "evaluate %v %v %v", xs, op, ys)
	}
	defer z.Release()
	return z.String(), nil
}
