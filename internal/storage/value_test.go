package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
		name  string
	}{
		{Int8, 1, "int8"},
		{Int16, 2, "int16"},
		{Int32, 4, "int32"},
		{Int64, 8, "int64"},
		{Uint8, 1, "uint8"},
		{Float32, 4, "float32"},
		{Float64, 8, "float64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.dtype.Size())
			assert.Equal(t, tt.name, tt.dtype.String())

			parsed, err := ParseDataType(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.dtype, parsed)
		})
	}
}

func TestParseDataTypeUnknown(t *testing.T) {
	_, err := ParseDataType("complex128")
	assert.ErrorIs(t, err, ErrUnsupportedElementType)
}

func TestDataTypeOf(t *testing.T) {
	assert.Equal(t, Int8, DataTypeOf[int8]())
	assert.Equal(t, Uint8, DataTypeOf[uint8]())
	assert.Equal(t, Float32, DataTypeOf[float32]())
	assert.Equal(t, Float64, DataTypeOf[float64]())
}

func TestValueRoundTrip(t *testing.T) {
	assert.Equal(t, int8(-7), As[int8](ValueOf(int8(-7))))
	assert.Equal(t, int16(-300), As[int16](ValueOf(int16(-300))))
	assert.Equal(t, int32(1<<30), As[int32](ValueOf(int32(1<<30))))
	assert.Equal(t, int64(math.MinInt64), As[int64](ValueOf(int64(math.MinInt64))))
	assert.Equal(t, uint8(250), As[uint8](ValueOf(uint8(250))))
	assert.Equal(t, float32(0.1), As[float32](ValueOf(float32(0.1))))
	assert.Equal(t, 1.1, As[float64](ValueOf(1.1)))
}

func TestValueBits(t *testing.T) {
	v := ValueOf(int16(-2))
	assert.Equal(t, uint64(0xfffe), v.Bits())
	assert.Equal(t, int64(-2), FromBits(Int16, v.Bits()).Int64())
	assert.Equal(t, int64(-1), FromBits(Int8, 0x1ff).Int64(), "high bits dropped")

	f := ValueOf(float32(-1.5))
	assert.Equal(t, uint64(math.Float32bits(-1.5)), f.Bits())
	assert.Equal(t, -1.5, FromBits(Float32, f.Bits()).Float64())
}

func TestValueConvert(t *testing.T) {
	v := FromFloat64(Int8, 3.9)
	assert.Equal(t, int64(3), v.Int64())

	wrapped := FromInt64(Int8, 200)
	assert.Equal(t, int64(-56), wrapped.Int64())

	f := ValueOf(int32(12)).Convert(Float64)
	assert.Equal(t, Float64, f.DType())
	assert.Equal(t, 12.0, f.Float64())

	assert.Equal(t, int64(255), ValueOf(uint8(255)).Convert(Int64).Int64())
}

func TestValueEqualIsExact(t *testing.T) {
	assert.True(t, ValueOf(0.0).Equal(ValueOf(math.Copysign(0, -1))), "negative zero equals zero")
	assert.False(t, ValueOf(math.NaN()).Equal(ValueOf(math.NaN())), "NaN never equals")
	assert.False(t, ValueOf(1.0).Equal(ValueOf(math.Nextafter(1.0, 2.0))), "no tolerance")
	assert.True(t, ValueOf(int8(1)).Equal(ValueOf(1.0)), "mixed types compare numerically")
	assert.True(t, ValueOf(int16(-1)).Equal(ValueOf(int64(-1))))
	assert.True(t, Float32.Zero().IsZero())
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(Float64, "2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v.Float64())

	v, err = ParseValue(Uint8, "200")
	require.NoError(t, err)
	assert.Equal(t, int64(200), v.Int64())

	_, err = ParseValue(Int8, "200")
	assert.Error(t, err)

	_, err = ParseValue(Uint8, "-1")
	assert.Error(t, err)

	assert.Equal(t, "-3", ValueOf(int16(-3)).String())
	assert.Equal(t, "0.1", ValueOf(float32(0.1)).String())
}
