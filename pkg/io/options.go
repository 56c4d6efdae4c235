package io

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/whtopo/pkg/layout"
)

// Options configures import and export. The zero value is ready to use.
type Options struct {
	// WarehouseID is written as whId on export. Zero uses the current time
	// in Unix milliseconds.
	WarehouseID int64

	// NewID generates node and edge IDs on import. Defaults to random UUIDs.
	NewID func() string

	// Now is the clock used for the default warehouse ID.
	Now func() time.Time

	// Layout tunes the hierarchical layout applied to DOT imports.
	// Nil uses layout.DefaultConfig.
	Layout *layout.Config

	// Logger receives debug messages about dropped items.
	Logger *log.Logger
}

func (o Options) newID() func() string {
	if o.NewID != nil {
		return o.NewID
	}
	return uuid.NewString
}

func (o Options) warehouseID() int64 {
	if o.WarehouseID != 0 {
		return o.WarehouseID
	}
	if o.Now != nil {
		return o.Now().UnixMilli()
	}
	return time.Now().UnixMilli()
}

func (o Options) layoutConfig() layout.Config {
	if o.Layout != nil {
		return *o.Layout
	}
	return layout.DefaultConfig()
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}
