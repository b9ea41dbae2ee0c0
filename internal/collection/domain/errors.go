package domain

import "errors"

var (
	ErrVinylNotFound      = errors.New("Vinyl not found")
	ErrVinylAlreadyExists = errors.New("Vinyl already exists in the collection")
	ErrCollectionNotFound = errors.New("Vinyl collection not found")
)
