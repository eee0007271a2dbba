package transform

import "fmt"

// Node is one step of a Sequence: a transform and whether it is applied as
// given (Forward) or inverted.
type Node[T Transform[T]] struct {
	Transform T
	Forward   bool
}

// Sequence folds an ordered chain of transforms into one. Node i is applied
// after the composition of nodes [0, i); because transform algebra is not
// commutative the insertion order is significant.
//
// A Sequence stores copies of the transforms it is given and never mutates
// caller data. It is not safe for concurrent use.
type Sequence[T Transform[T]] struct {
	path []Node[T]
}

// Add appends a node to the end of the path.
func (s *Sequence[T]) Add(forward bool, t T) {
	s.path = append(s.path, Node[T]{Transform: t, Forward: forward})
}

// Clear empties the path, keeping its capacity.
func (s *Sequence[T]) Clear() {
	s.path = s.path[:0]
}

// Len returns the number of nodes on the path.
func (s *Sequence[T]) Len() int { return len(s.path) }

// Nodes returns a copy of the path.
func (s *Sequence[T]) Nodes() []Node[T] {
	out := make([]Node[T], len(s.path))
	copy(out, s.path)
	return out
}

// Compute writes the composition of the whole path into result. An empty
// path leaves result untouched. If a reverse node cannot be inverted the
// error wraps geom.ErrSingularTransform, names the node, and result is left
// untouched.
//
// Compute does not modify the path and may be called any number of times.
func (s *Sequence[T]) Compute(result *T) error {
	if len(s.path) == 0 {
		return nil
	}

	// two accumulator slots swapped each step instead of copying into one
	var acc [2]T
	cur := 0

	first, err := s.effective(0)
	if err != nil {
		return err
	}
	acc[cur] = first

	for i := 1; i < len(s.path); i++ {
		step, err := s.effective(i)
		if err != nil {
			return err
		}
		acc[1-cur] = acc[cur].Concat(step)
		cur = 1 - cur
	}

	*result = acc[cur]
	return nil
}

// effective returns node i as it is applied: itself when forward, its
// inverse otherwise.
func (s *Sequence[T]) effective(i int) (T, error) {
	n := s.path[i]
	if n.Forward {
		return n.Transform, nil
	}
	inv, err := n.Transform.Invert()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("sequence node %d: %w", i, err)
	}
	return inv, nil
}
