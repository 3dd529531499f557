package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrListNotFound is returned when a shopping list does not exist
	ErrListNotFound = errors.New("shopping list not found")

	// ErrItemNotFound is returned when a shopping list item does not exist
	ErrItemNotFound = errors.New("shopping list item not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidCatalog is returned when package or price tables fail validation
	ErrInvalidCatalog = errors.New("invalid package catalog")

	// ErrStoreFailure is returned when the data store cannot complete a read or write
	ErrStoreFailure = errors.New("data store failure")
)
