package database

import "errors"

// ErrPersistence marks a failed write to the durable store. Callers can
// detect it with errors.Is and decide whether to retry or just warn the
// user; in-memory state stays usable either way.
var ErrPersistence = errors.New("persistence failure")
