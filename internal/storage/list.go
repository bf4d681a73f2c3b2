package storage

import (
	"fmt"
	"slices"
)

// listNode is one ordered key map of a ListStorage tree. Inner levels use
// children, the last level uses values; keys are strictly increasing.
type listNode struct {
	keys     []int
	children []*listNode
	values   []Value
}

// find returns the position of key and whether it is present.
func (n *listNode) find(key int) (int, bool) {
	return slices.BinarySearch(n.keys, key)
}

func (n *listNode) removeAt(i int) {
	n.keys = slices.Delete(n.keys, i, i+1)
	if n.children != nil {
		n.children = slices.Delete(n.children, i, i+1)
	} else {
		n.values = slices.Delete(n.values, i, i+1)
	}
}

func (n *listNode) clone() *listNode {
	c := &listNode{keys: slices.Clone(n.keys)}
	if n.values != nil {
		c.values = slices.Clone(n.values)
	}
	if n.children != nil {
		c.children = make([]*listNode, len(n.children))
		for i, child := range n.children {
			c.children[i] = child.clone()
		}
	}
	return c
}

// ListStorage is a recursive sparse format: a tree of rank levels of ordered
// key maps, one level per axis. A coordinate missing from the tree reads as
// the default, and no empty node other than the root is ever kept.
type ListStorage struct {
	root  *listNode
	shape Shape
	dtype DataType
	def   Value
}

// NewList creates an empty list storage. Its element type is def's type.
func NewList(shape Shape, def Value) (*ListStorage, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if !def.DType().Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedElementType, int(def.DType()))
	}
	return &ListStorage{
		root:  &listNode{},
		shape: shape.Clone(),
		dtype: def.DType(),
		def:   def,
	}, nil
}

func (l *ListStorage) sealed() {}

// Kind returns List.
func (l *ListStorage) Kind() Kind { return List }

// DType returns the element type.
func (l *ListStorage) DType() DataType { return l.dtype }

// Shape returns a copy of the dimensions.
func (l *ListStorage) Shape() Shape { return l.shape.Clone() }

// Rank returns the number of dimensions.
func (l *ListStorage) Rank() int { return len(l.shape) }

// Default returns the value of every coordinate absent from the tree.
func (l *ListStorage) Default() Value { return l.def }

// Get descends one level per coordinate and returns the default at the first miss.
func (l *ListStorage) Get(coords []int) (Value, error) {
	if err := l.shape.CheckCoords(coords); err != nil {
		return Value{}, err
	}
	node := l.root
	last := len(coords) - 1
	for level := 0; level < last; level++ {
		i, ok := node.find(coords[level])
		if !ok {
			return l.def, nil
		}
		node = node.children[i]
	}
	if i, ok := node.find(coords[last]); ok {
		return node.values[i], nil
	}
	return l.def, nil
}

// Set stores v at coords. Writing the default removes the entry and prunes
// every ancestor left empty.
func (l *ListStorage) Set(coords []int, v Value) (Value, error) {
	if err := l.shape.CheckCoords(coords); err != nil {
		return Value{}, err
	}
	v = v.Convert(l.dtype)
	if v.Equal(l.def) {
		l.remove(coords)
		return v, nil
	}
	l.insert(coords, v)
	return v, nil
}

// insert descends through existing nodes. At the first missing level the
// remaining chain is built detached and attached with a single insertion,
// so the tree never holds a partially built path.
func (l *ListStorage) insert(coords []int, v Value) {
	node := l.root
	last := len(coords) - 1
	level := 0
	for ; level < last; level++ {
		i, ok := node.find(coords[level])
		if !ok {
			break
		}
		node = node.children[i]
	}

	if level == last {
		i, ok := node.find(coords[last])
		if ok {
			node.values[i] = v
			return
		}
		node.keys = slices.Insert(node.keys, i, coords[last])
		node.values = slices.Insert(node.values, i, v)
		return
	}

	chain := &listNode{keys: []int{coords[last]}, values: []Value{v}}
	for up := last - 1; up > level; up-- {
		chain = &listNode{keys: []int{coords[up]}, children: []*listNode{chain}}
	}
	i, _ := node.find(coords[level])
	node.keys = slices.Insert(node.keys, i, coords[level])
	node.children = slices.Insert(node.children, i, chain)
}

// remove deletes the leaf at coords, then walks the recorded path from the
// leaf's parent toward the root, deleting each child map that became empty.
// The walk stops at the first non-empty map; the root itself is never removed.
func (l *ListStorage) remove(coords []int) {
	last := len(coords) - 1
	path := make([]*listNode, 0, len(coords))
	slots := make([]int, 0, len(coords))

	node := l.root
	for level := 0; level < last; level++ {
		i, ok := node.find(coords[level])
		if !ok {
			return
		}
		path = append(path, node)
		slots = append(slots, i)
		node = node.children[i]
	}
	i, ok := node.find(coords[last])
	if !ok {
		return
	}
	node.removeAt(i)

	child := node
	for level := len(path) - 1; level >= 0; level-- {
		if len(child.keys) > 0 {
			break
		}
		path[level].removeAt(slots[level])
		child = path[level]
	}
}

// Clone deep-copies every level of the tree.
func (l *ListStorage) Clone() Storage {
	return &ListStorage{
		root:  l.root.clone(),
		shape: l.shape.Clone(),
		dtype: l.dtype,
		def:   l.def,
	}
}

// NumStored returns the number of leaf entries.
func (l *ListStorage) NumStored() int {
	n := 0
	l.EachStored(func([]int, Value) { n++ })
	return n
}

// NodeCount returns the number of maps in the tree, root included.
func (l *ListStorage) NodeCount() int {
	count := 0
	stack := []*listNode{l.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, node.children...)
	}
	return count
}

// EachStored visits the leaves in lexicographic coordinate order.
func (l *ListStorage) EachStored(fn func(coords []int, v Value)) {
	coords := make([]int, len(l.shape))
	l.walk(l.root, 0, coords, fn)
}

func (l *ListStorage) walk(node *listNode, level int, coords []int, fn func([]int, Value)) {
	for i, key := range node.keys {
		coords[level] = key
		if level == len(coords)-1 {
			fn(coords, node.values[i])
			continue
		}
		l.walk(node.children[i], level+1, coords, fn)
	}
}
