// Package venue holds the venue-specific glue a FIX client needs to log
// on to a particular counterparty: which fields to stamp on the Logon
// message, and how to sign them. None of it reaches back into fixsession,
// fixcodec, or fixfield beyond the public Register/field-construction
// APIs, so the core never depends on a venue.
package venue

import (
	"time"

	"github.com/ndrandal/fixengine/internal/fixfield"
)

// Config holds the credentials and identifiers a venue adapter needs to
// build its Logon fields. Not every adapter uses every field.
type Config struct {
	APIKey     string
	APISecret  string
	Passphrase string
	SubAccount string
}

// Adapter supplies the venue-specific portion of a Logon message and any
// field descriptors the core registry doesn't already carry.
type Adapter interface {
	// LogonFields returns the additional fields (beyond the session-layer
	// header the core always sends) this venue requires on Logon.
	LogonFields(cfg Config, now time.Time) ([]fixfield.Field, error)

	// RegisterFields adds any venue-specific field descriptors to reg. It
	// must tolerate being called against a registry that already has them
	// registered (e.g. by an earlier adapter sharing a tag), returning nil
	// rather than a collision error in that case.
	RegisterFields(reg *fixfield.Registry) error
}

// registerIfAbsent registers d unless reg already has a descriptor for
// d.Tag, so two adapters sharing the standard Username/Password/RawData
// tags don't collide when both are wired into the same process.
func registerIfAbsent(reg *fixfield.Registry, d fixfield.Descriptor) error {
	if _, ok := reg.Lookup(d.Tag); ok {
		return nil
	}
	return reg.Register(d)
}
