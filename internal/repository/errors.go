// Package repository contains the data access layer, separated from the
// HTTP handlers. Shared sentinel errors live here so handlers can map
// repository failures onto HTTP statuses without string matching.
// Entity specific not-found errors are declared next to their
// repositories.
package repository

import "errors"

// ErrConflict is returned when a delete cannot proceed because dependent
// rows still reference the target, such as removing a park area that
// still contains attractions. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
