// Package blob exposes image storage to the rest of the module. Only this
// package imports the concrete drivers under internal/infra/blob.
package blob

import (
	"tailorbook/internal/blob/core"
)

type (
	// Driver identifies a blob backend.
	Driver = core.Driver
	// PutOptions configures an image write.
	PutOptions = core.PutOptions
	// Info describes stored image metadata.
	Info = core.Info
	// Store is the interface implemented by every driver.
	Store = core.Store
)

const (
	DriverNone       = core.DriverNone
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrNotFound   = core.ErrNotFound
	ErrExists     = core.ErrExists
	ErrInvalidKey = core.ErrInvalidKey
)
