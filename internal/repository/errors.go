package repository

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrPostNotFound       = errors.New("post not found")
	ErrAdNotFound         = errors.New("advertisement not found")
	ErrLikeNotFound       = errors.New("like not found")
	ErrImpressionNotFound = errors.New("impression not found")
)
