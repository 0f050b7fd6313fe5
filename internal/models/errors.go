package models

import "errors"

var (
	// ErrUnknownEntity is returned by similarity lookups on a movie id the
	// content index was not built with.
	ErrUnknownEntity = errors.New("unknown movie")

	// ErrStoreWrite wraps any failure to persist a rating.
	ErrStoreWrite = errors.New("rating store write failed")

	ErrMovieNotFound      = errors.New("movie not found")
	ErrInvalidRating      = errors.New("rating must be between 0.5 and 5.0 in steps of 0.5")
	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCannotDeleteSelf   = errors.New("you cannot delete yourself")
	ErrNotEnoughSeeds     = errors.New("not enough seed movies selected")
)
