package matrix

import (
	"fmt"

	"github.com/born-ml/nmatrix/internal/storage"
)

// Option configures NewOf.
type Option func(*options)

type options struct {
	dtype      storage.DataType
	def        storage.Value
	hasDType   bool
	hasDefault bool
}

// WithDType sets the element type.
func WithDType(dt storage.DataType) Option {
	return func(o *options) {
		o.dtype = dt
		o.hasDType = true
	}
}

// WithDefault sets the value reported for coordinates with no stored entry.
// Without WithDType the element type is taken from v.
func WithDefault(v storage.Value) Option {
	return func(o *options) {
		o.def = v
		o.hasDefault = true
	}
}

// gatherOptions applies opts and resolves dtype and default against each other.
func gatherOptions(opts []Option) (options, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasDType && !o.dtype.Valid() {
		return o, fmt.Errorf("%w: %d", storage.ErrUnsupportedElementType, int(o.dtype))
	}
	if o.hasDefault && !o.def.DType().Valid() {
		return o, fmt.Errorf("%w: default of type %d", storage.ErrUnsupportedElementType, int(o.def.DType()))
	}
	switch {
	case o.hasDType && o.hasDefault:
		o.def = o.def.Convert(o.dtype)
	case o.hasDefault:
		o.dtype = o.def.DType()
	case o.hasDType:
		o.def = o.dtype.Zero()
	default:
		o.dtype = storage.Float64
		o.def = storage.Float64.Zero()
	}
	return o, nil
}
