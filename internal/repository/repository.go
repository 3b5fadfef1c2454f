package repository

// Package repository contains data access layer abstractions over the three
// persisted collections: templates, letters, and settings. Implementations
// live in subpackages (e.g., postgres) and hold no business logic; serializing
// read-modify-write sequences is the service layer's responsibility.

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
