package graph

import (
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// Feeds binds nodes, usually placeholders, to concrete values for one
// evaluation. Fed values must not be modified while a Session uses them.
type Feeds map[*Node]*tensor.RawTensor

// Set binds node to value. Go values are converted with tensor.FromValue and
// cast to the node's dtype, so literals like []float64 can feed a Float32
// placeholder. A *tensor.RawTensor must already have the node's dtype.
func (f Feeds) Set(node *Node, value any) error {
	if !node.Ok() {
		return errors.Errorf("Feeds.Set: invalid node")
	}
	raw, isRaw := value.(*tensor.RawTensor)
	if !isRaw {
		var err error
		raw, err = tensor.FromValue(value)
		if err != nil {
			return errors.Wrapf(ErrInvalidArgument, "Feeds.Set(%s): %v", node, err)
		}
		if raw.DType() != node.dtype {
			raw = tensor.Cast(raw, node.dtype)
		}
	}
	if err := checkFeed(node, raw); err != nil {
		return err
	}
	f[node] = raw
	return nil
}

// checkFeed verifies value can stand for node.
func checkFeed(node *Node, value *tensor.RawTensor) error {
	if value == nil {
		return errors.Wrapf(ErrInvalidArgument, "feed for %s is nil", node)
	}
	if value.DType() != node.dtype {
		return errors.Wrapf(ErrDTypeMismatch, "feed for %s has dtype %s", node, value.DType())
	}
	if !node.shape.CompatibleWith(value.Shape()) {
		return errors.Wrapf(ErrShapeMismatch, "feed for %s has shape %v", node, value.Shape())
	}
	return nil
}
