package inmemory

import "github.com/prvwallet/prvwallet/internal/core/domain"

// Server errors
var (
	// ErrServerNotFound ...
	ErrServerNotFound = domain.ErrServerNotFound
	// ErrServerAlreadyExists ...
	ErrServerAlreadyExists = domain.ErrServerAlreadyExists
)
