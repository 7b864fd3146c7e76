// Package repository defines the store contracts used by handlers and the
// MySQL implementation of them.  Every backend translates its native
// errors into the sentinels below so handlers can map them to HTTP
// statuses without knowing which database is in use.
package repository

import "errors"

// ErrNotFound is returned when a looked-up entity does not exist.  Handlers
// translate it into 404 (or 401 in the session middleware).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by UserStore.Create when the email is already
// registered.  The store is left unchanged.
var ErrEmailExists = errors.New("email already exists")
