package model

import "errors"

var (
	// ErrUnknownRelation is returned when a table has no relationship of the requested name
	ErrUnknownRelation = errors.New("unknown relation")

	// ErrUnresolvedModel is returned when a relationship has no target model class
	ErrUnresolvedModel = errors.New("relation target has no model")

	// ErrMissingKey is returned when a parent record lacks a key the relation is joined on
	ErrMissingKey = errors.New("record has no value for key column")

	// ErrInvalidRelationType is returned for a relationship kind with no implementation
	ErrInvalidRelationType = errors.New("invalid relationship type")
)
