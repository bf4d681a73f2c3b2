package main

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/nmatrix/matrix"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose      bool
	skipChecksum bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "nmatrix",
		Short:         "Inspect and transform N-dimensional matrix files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log each step")
	root.PersistentFlags().BoolVar(&g.skipChecksum, "skip-checksum", false, "load files without verifying the data checksum")

	root.AddCommand(
		newVersionCmd(),
		newCreateCmd(g),
		newInfoCmd(g),
		newPrintCmd(g),
		newGetCmd(g),
		newSetCmd(g),
		newConvertCmd(g),
		newMultiplyCmd(g),
	)
	return root
}

func (g *globalFlags) logf(format string, args ...any) {
	if g.verbose {
		log.Printf(format, args...)
	}
}

func (g *globalFlags) readerOptions() matrix.ReaderOptions {
	opts := matrix.DefaultReaderOptions()
	opts.SkipChecksumValidation = g.skipChecksum
	return opts
}

func (g *globalFlags) load(path string) (*matrix.Matrix, error) {
	g.logf("loading %s", path)
	m, err := matrix.LoadWithOptions(path, g.readerOptions())
	if err != nil {
		return nil, err
	}
	g.logf("loaded %s %s %v", m.Kind(), m.DType(), []int(m.Shape()))
	return m, nil
}

// emit saves m to path, or prints it to w when path is empty.
func (g *globalFlags) emit(w io.Writer, path string, m *matrix.Matrix) error {
	if path == "" {
		_, err := fmt.Fprintln(w, m)
		return err
	}
	g.logf("saving %s %s to %s", m.Kind(), m.DType(), path)
	return matrix.Save(path, m)
}

// parseShape parses a comma-separated list of dimensions such as "3,2,8".
func parseShape(s string) (matrix.Shape, error) {
	parts := strings.Split(s, ",")
	shape := make(matrix.Shape, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", matrix.ErrInvalidShape, s)
		}
		shape[i] = n
	}
	return shape, nil
}

func parseCoords(args []string) ([]int, error) {
	coords := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", a)
		}
		coords[i] = n
	}
	return coords, nil
}
