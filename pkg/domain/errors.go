package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidStatus is returned when a status outside the lifecycle is supplied.
var ErrInvalidStatus = errors.New("invalid order status")

// ErrUnknownGallery is returned when an operation names an unsupported gallery.
var ErrUnknownGallery = errors.New("unknown gallery")

// ErrNotFound is returned when a referenced client, order, or gallery item
// does not exist. The transaction that produced it leaves state unchanged.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
