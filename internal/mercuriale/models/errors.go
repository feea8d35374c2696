package models

import "github.com/pkg/errors"

var (
	// ErrCatalogLoad is terminal for the session: the user has to reload.
	ErrCatalogLoad        = errors.New("catalog load failed")
	ErrNotLoaded          = errors.New("catalogs are not loaded")
	ErrDuplicateCartEntry = errors.New("item already in order list")
	ErrRecordNotFound     = errors.New("record not found")
	ErrUnknownField       = errors.New("unknown field")
	ErrUnknownSource      = errors.New("unknown source")
	ErrEmptyCart          = errors.New("order list is empty")
)
