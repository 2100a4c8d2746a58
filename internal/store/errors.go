package store

import "errors"

var (
	// ErrStoreUnavailable means the stored data is damaged and the store
	// cannot be opened without discarding it
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrSchemaTooNew means the store was written by a newer schema version
	ErrSchemaTooNew = errors.New("record store schema is newer than supported")
	// ErrDuplicateKey is returned by Add when the primary key is taken
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound is returned by Get and GetSetting for absent keys
	ErrNotFound = errors.New("record not found")
	// ErrWrite wraps serialization and I/O failures on writes
	ErrWrite = errors.New("write failed")
	// ErrRead wraps serialization and I/O failures on reads
	ErrRead = errors.New("read failed")
	// ErrUnknownCollection is returned for collections outside the open schema
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrUnknownIndex is returned for indexes a collection does not declare
	ErrUnknownIndex = errors.New("unknown index")
)
