package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for registry operations. Callers match them with errors.Is.
var (
	ErrNotFound          = goerr.New("not found")
	ErrIllegalTransition = goerr.New("illegal status transition")
	ErrInvalidFilter     = goerr.New("invalid filter")
	ErrInvalidCatalog    = goerr.New("invalid catalog")
)
