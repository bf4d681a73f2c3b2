package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/nmatrix/matrix"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func save(t *testing.T, dir, name string, m *matrix.Matrix) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, matrix.Save(path, m))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, matrix.Version)
}

func TestCreateSetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.nmx")

	_, err := run(t, "create", "--kind", "list", "--dtype", "int32", "--shape", "3,2,8", "--default", "-1", "-o", path)
	require.NoError(t, err)

	_, err = run(t, "set", path, "42", "2", "1", "7")
	require.NoError(t, err)

	out, err := run(t, "get", path, "2", "1", "7")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)

	out, err = run(t, "get", path, "0", "0", "0")
	require.NoError(t, err)
	assert.Equal(t, "-1\n", out)

	_, err = run(t, "get", path, "3", "0", "0")
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestSetRejectsValueOfWrongType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.nmx")
	_, err := run(t, "create", "--dtype", "uint8", "--shape", "2,2", "-o", path)
	require.NoError(t, err)

	_, err = run(t, "set", path, "300", "0", "0")
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	m, err := matrix.NewOf(matrix.Yale, matrix.Square(3), matrix.WithDType(matrix.Float32))
	require.NoError(t, err)
	require.NoError(t, matrix.SetAs(m, float32(2), 0, 1))
	path := save(t, t.TempDir(), "y.nmx", m)

	out, err := run(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "kind:     yale")
	assert.Contains(t, out, "dtype:    float32")
	assert.Contains(t, out, "shape:    [3 3]")
	assert.Contains(t, out, "section:  row_ptr")
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	m, err := matrix.FromSlice(matrix.Square(2), []float64{1.5, 0, 0, -3})
	require.NoError(t, err)
	src := save(t, dir, "d.nmx", m)
	dst := filepath.Join(dir, "l.nmx")

	_, err = run(t, "convert", src, "--to", "list", "--dtype", "int16", "-o", dst)
	require.NoError(t, err)

	got, err := matrix.Load(dst)
	require.NoError(t, err)
	assert.Equal(t, matrix.List, got.Kind())
	assert.Equal(t, matrix.Int16, got.DType())
	assert.Equal(t, 2, got.NumStored())

	_, err = run(t, "convert", src, "--to", "csr")
	assert.ErrorIs(t, err, matrix.ErrUnknownKind)
}

func TestMultiplyDensifiesOperands(t *testing.T) {
	dir := t.TempDir()
	a, err := matrix.NewOf(matrix.List, matrix.Shape{4, 3})
	require.NoError(t, err)
	b, err := matrix.NewOf(matrix.Yale, matrix.Shape{3, 2})
	require.NoError(t, err)

	left := [][]float64{{14, 9, 3}, {2, 11, 15}, {0, 12, 17}, {5, 2, 3}}
	right := [][]float64{{12, 25}, {9, 10}, {8, 5}}
	for i, row := range left {
		for j, v := range row {
			require.NoError(t, matrix.SetAs(a, v, i, j))
		}
	}
	for i, row := range right {
		for j, v := range row {
			require.NoError(t, matrix.SetAs(b, v, i, j))
		}
	}

	out, err := run(t, "multiply", save(t, dir, "a.nmx", a), save(t, dir, "b.nmx", b))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "[273, 455]", lines[1])
	assert.Equal(t, "[102, 160]", lines[4])
}

func TestMultiplyTypeMismatch(t *testing.T) {
	dir := t.TempDir()
	a, err := matrix.New(matrix.Square(2), matrix.Float64)
	require.NoError(t, err)
	b, err := matrix.New(matrix.Square(2), matrix.Int32)
	require.NoError(t, err)

	_, err = run(t, "multiply", save(t, dir, "a.nmx", a), save(t, dir, "b.nmx", b))
	assert.ErrorIs(t, err, matrix.ErrTypeMismatch)
}

func TestParseShape(t *testing.T) {
	shape, err := parseShape("3, 2,8")
	require.NoError(t, err)
	assert.Equal(t, matrix.Shape{3, 2, 8}, shape)

	_, err = parseShape("3,x")
	assert.ErrorIs(t, err, matrix.ErrInvalidShape)
}
