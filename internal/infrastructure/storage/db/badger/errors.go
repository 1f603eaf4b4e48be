package dbbadger

import "github.com/prvwallet/prvwallet/internal/core/domain"

var (
	// ErrServerNotFound ...
	ErrServerNotFound = domain.ErrServerNotFound
	// ErrServerAlreadyExists ...
	ErrServerAlreadyExists = domain.ErrServerAlreadyExists
)
