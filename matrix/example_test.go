// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package matrix_test

import (
	"bytes"
	"fmt"

	"github.com/born-ml/nmatrix/matrix"
)

func ExampleMultiply() {
	a, _ := matrix.FromSlice(matrix.Shape{4, 3}, []float64{
		14, 9, 3,
		2, 11, 15,
		0, 12, 17,
		5, 2, 3,
	})
	b, _ := matrix.FromSlice(matrix.Shape{3, 2}, []float64{
		12, 25,
		9, 10,
		8, 5,
	})

	c, err := matrix.Multiply(a, b)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(c)
	// Output:
	// dense float64 [4 2] default=0 stored=8
	// [273, 455]
	// [243, 235]
	// [244, 205]
	// [102, 160]
}

func ExampleNewOf() {
	m, _ := matrix.NewOf(matrix.List, matrix.Shape{3, 2, 8}, matrix.WithDType(matrix.Int32))
	_, _ = m.Set(matrix.ValueOf(int32(7)), 2, 1, 5)
	_, _ = m.Set(matrix.ValueOf(int32(9)), 0, 0, 0)
	fmt.Println(m.NumStored())

	// Writing the default removes the entry.
	_, _ = m.Set(matrix.ValueOf(int32(0)), 2, 1, 5)
	fmt.Println(m.NumStored())

	v, _ := matrix.GetAs[int32](m, 0, 0, 0)
	fmt.Println(v)
	// Output:
	// 2
	// 1
	// 9
}

func ExampleMatrix_Densify() {
	y, _ := matrix.NewOf(matrix.Yale, matrix.Square(3), matrix.WithDType(matrix.Float32))
	_ = matrix.SetAs(y, float32(1.5), 0, 2)
	_ = matrix.SetAs(y, float32(4), 1, 1)

	d, _ := y.Densify()
	fmt.Println(d)
	// Output:
	// dense float32 [3 3] default=0 stored=9
	// [0, 0, 1.5]
	// [0, 4, 0]
	// [0, 0, 0]
}

func ExampleWrite() {
	m, _ := matrix.FromSlice(matrix.Shape{2, 2}, []int8{1, -2, 3, -4})

	var buf bytes.Buffer
	if err := matrix.Write(&buf, m); err != nil {
		fmt.Println(err)
		return
	}
	back, err := matrix.Read(&buf)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(back.Equal(m))
	// Output: true
}
