package msgpack

import (
	"errors"
	"fmt"
)

// Decode failure kinds.
//
// ErrInvalidInput covers every decode failure: malformed bytes, truncated
// input, duplicate map keys, and token streams whose shape does not fit the
// requested schema. Callers branch with errors.Is; no byte offsets or value
// paths are attached beyond the message text.
//
// ErrUnexpectedType is the refinement for shape mismatches: the bytes are
// well-formed MessagePack but encode a different shape than asked for. It
// wraps ErrInvalidInput, so errors.Is(err, ErrInvalidInput) holds for it too.
// The distinction matters for speculative decoding (untagged enums): a shape
// mismatch means "try the next candidate", while a bare ErrInvalidInput means
// the input itself is broken and no candidate can survive.
var (
	ErrInvalidInput   = errors.New("msgpack: invalid input")
	ErrUnexpectedType = fmt.Errorf("%w: unexpected type", ErrInvalidInput)
)
