package catalog

import (
	"errors"
	"fmt"
)

// ErrFetch matches every failure to retrieve products from the catalog source.
var ErrFetch = errors.New("catalog fetch failed")

// ErrProductNotFound means the source answered but has no product with the requested id.
var ErrProductNotFound = errors.New("product not found")

type Kind string

const (
	KindNetwork Kind = "network"
	KindStatus  Kind = "status"
	KindDecode  Kind = "decode"
)

// FetchError describes a failed catalog request. errors.Is(err, ErrFetch) is true for it.
type FetchError struct {
	Op     string
	Kind   Kind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }
