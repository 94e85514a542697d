package persistence

import (
	"context"
	"errors"
	"io"
)

// ErrNoSnapshot means nothing has been saved yet. Load treats it as an empty
// snapshot.
var ErrNoSnapshot = errors.New("no snapshot")

// Store holds exactly one snapshot. Write replaces it completely.
type Store interface {
	Read(ctx context.Context) (io.ReadCloser, error)
	Write(ctx context.Context, data []byte) error
}
