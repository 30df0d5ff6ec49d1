/*
Package orm breaks the state space into prefixed sections called
buckets. Each bucket contains only one type of model, keyed by a
caller-chosen primary key with deterministic byte ordering. Models are
validated before every write and persisted with a deterministic codec,
so the byte image of the state is a pure function of its logical
content.
*/
package orm

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/ghostchain/ghost/errors"
)

// Model is implemented by any entity that can be stored in a bucket.
type Model interface {
	Validate() error
}

// enc is the deterministic encoding mode shared by all buckets.
// Core deterministic options: sorted map keys, shortest integer forms.
var enc cbor.EncMode

func init() {
	var err error
	enc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// MarshalModel serializes a model with the deterministic codec.
func MarshalModel(m Model) ([]byte, error) {
	raw, err := enc.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot serialize: %s", err)
	}
	return raw, nil
}

// UnmarshalModel deserializes a model from its stored form.
func UnmarshalModel(raw []byte, dest Model) error {
	if err := cbor.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot deserialize: %s", err)
	}
	return nil
}
