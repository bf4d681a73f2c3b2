package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/born-ml/nmatrix/internal/serialization"
	"github.com/born-ml/nmatrix/matrix"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the library version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nmatrix %s (format v%d)\n", matrix.Version, serialization.FormatVersion)
		},
	}
}

func newCreateCmd(g *globalFlags) *cobra.Command {
	var kind, dtype, shape, def, out string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty matrix file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := matrix.ParseKind(kind)
			if err != nil {
				return err
			}
			dt, err := matrix.ParseDataType(dtype)
			if err != nil {
				return err
			}
			sh, err := parseShape(shape)
			if err != nil {
				return err
			}
			opts := []matrix.Option{matrix.WithDType(dt)}
			if def != "" {
				v, err := matrix.ParseValue(dt, def)
				if err != nil {
					return fmt.Errorf("invalid default %q: %w", def, err)
				}
				opts = append(opts, matrix.WithDefault(v))
			}
			m, err := matrix.NewOf(k, sh, opts...)
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), out, m)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "dense", "storage kind: dense, list or yale")
	cmd.Flags().StringVar(&dtype, "dtype", "float64", "element type")
	cmd.Flags().StringVar(&shape, "shape", "", "comma-separated dimensions, e.g. 3,2,8")
	cmd.Flags().StringVar(&def, "default", "", "default value for list storage")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (prints when empty)")
	_ = cmd.MarkFlagRequired("shape")
	return cmd
}

func newInfoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show the header of a matrix file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g.logf("opening %s", args[0])
			r, err := serialization.OpenWithOptions(args[0], g.readerOptions())
			if err != nil {
				return err
			}
			defer r.Close()

			h := r.Header()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "kind:     %s\n", h.Kind)
			fmt.Fprintf(w, "dtype:    %s\n", h.DType)
			fmt.Fprintf(w, "shape:    %v\n", h.Shape)
			fmt.Fprintf(w, "default:  %s\n", h.Default)
			fmt.Fprintf(w, "writer:   %s\n", h.WriterVersion)
			fmt.Fprintf(w, "checksum: %s\n", r.Checksum())
			for _, s := range h.Sections {
				fmt.Fprintf(w, "section:  %-8s count=%d offset=%d size=%d\n", s.Name, s.Count, s.Offset, s.Size)
			}
			keys := make([]string, 0, len(h.Metadata))
			for k := range h.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "meta:     %s=%s\n", k, h.Metadata[k])
			}
			return nil
		},
	}
}

func newPrintCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "print FILE",
		Short: "Print a matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := g.load(args[0])
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), "", m)
		},
	}
}

func newGetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE COORD...",
		Short: "Print the element at the given coordinates",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, err := parseCoords(args[1:])
			if err != nil {
				return err
			}
			m, err := g.load(args[0])
			if err != nil {
				return err
			}
			v, err := m.Get(coords...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newSetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE VALUE COORD...",
		Short: "Write one element and save the file in place",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			coords, err := parseCoords(args[2:])
			if err != nil {
				return err
			}
			m, err := g.load(args[0])
			if err != nil {
				return err
			}
			v, err := matrix.ParseValue(m.DType(), args[1])
			if err != nil {
				return fmt.Errorf("invalid %s value %q: %w", m.DType(), args[1], err)
			}
			old, err := m.Set(v, coords...)
			if err != nil {
				return err
			}
			g.logf("%v: %s -> %s", coords, old, v)
			return matrix.Save(args[0], m)
		},
	}
}

func newConvertCmd(g *globalFlags) *cobra.Command {
	var to, dtype, out string
	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert a matrix to another storage kind or element type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := g.load(args[0])
			if err != nil {
				return err
			}
			if to != "" {
				k, err := matrix.ParseKind(to)
				if err != nil {
					return err
				}
				if m, err = m.Convert(k); err != nil {
					return err
				}
			}
			if dtype != "" {
				dt, err := matrix.ParseDataType(dtype)
				if err != nil {
					return err
				}
				if m, err = m.Cast(dt); err != nil {
					return err
				}
			}
			return g.emit(cmd.OutOrStdout(), out, m)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target storage kind")
	cmd.Flags().StringVar(&dtype, "dtype", "", "target element type")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (prints when empty)")
	return cmd
}

func newMultiplyCmd(g *globalFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "multiply A B",
		Short: "Multiply two rank-2 matrices",
		Long:  "Multiply loads both operands, densifies sparse ones and writes the dense product.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadDense(g, args[0])
			if err != nil {
				return err
			}
			b, err := loadDense(g, args[1])
			if err != nil {
				return err
			}
			c, err := a.Multiply(b)
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), out, c)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (prints when empty)")
	return cmd
}

func loadDense(g *globalFlags, path string) (*matrix.Matrix, error) {
	m, err := g.load(path)
	if err != nil {
		return nil, err
	}
	if m.Kind() == matrix.Dense {
		return m, nil
	}
	g.logf("densifying %s", path)
	return m.Densify()
}
