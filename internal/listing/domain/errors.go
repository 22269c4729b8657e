package domain

import "errors"

var (
	ErrListingNotFound        = errors.New("listing not found")
	ErrProfileNotFound        = errors.New("profile not found")
	ErrNoImages               = errors.New("listing requires at least one image")
	ErrUnsupportedImageFormat = errors.New("unsupported image format")
)
