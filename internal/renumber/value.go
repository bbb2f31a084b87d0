// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package renumber

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrContract is the sentinel wrapped by every ContractError.
var ErrContract = errors.New("renumber: input must be text or a sequence of text")

// ContractError reports an argument that is neither text nor a sequence of
// text. Index is the offending element position, or -1 when the argument
// itself has the wrong type.
type ContractError struct {
	Type  string
	Index int
}

func (e *ContractError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("renumber: %s is not text or a sequence of text", e.Type)
	}
	return fmt.Sprintf("renumber: element %d is %s, expected string", e.Index, e.Type)
}

// Unwrap lets errors.Is match ErrContract.
func (e *ContractError) Unwrap() error {
	return ErrContract
}

// RenumberValue is the type-checked entry point for loosely typed callers
// (decoded YAML/JSON, plugin boundaries). It accepts a string, []string,
// iter.Seq[string] (named or as a plain func(func(string) bool)) or []any
// whose elements are all strings. Any other value fails with a
// *ContractError before the session state is touched.
func (r *Renumberer) RenumberValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return r.RenumberString(t), nil
	case []string:
		return r.RenumberStrings(t), nil
	case iter.Seq[string]:
		return r.Renumber(t), nil
	case func(func(string) bool):
		return r.Renumber(iter.Seq[string](t)), nil
	case []any:
		chunks := make([]string, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return "", &ContractError{Type: fmt.Sprintf("%T", e), Index: i}
			}
			chunks[i] = s
		}
		return r.Renumber(slices.Values(chunks)), nil
	default:
		return "", &ContractError{Type: fmt.Sprintf("%T", v), Index: -1}
	}
}
