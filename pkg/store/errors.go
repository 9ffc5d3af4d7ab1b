package store

import "errors"

var (
	// ErrUnknownSchema means the caller named a schema that wasn't part
	// of the Config passed to Open.
	ErrUnknownSchema = errors.New("store: unknown schema")
	// ErrLabelsRejected means a label set was rejected by its schema's
	// admission matcher.
	ErrLabelsRejected = errors.New("store: labels rejected by schema matcher")
	// ErrUnknownTier means the caller named a tier that isn't part of
	// the schema's declared cascade.
	ErrUnknownTier = errors.New("store: unknown tier")
)
