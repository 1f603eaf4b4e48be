package ports

import "github.com/prvwallet/prvwallet/internal/core/domain"

// RepoManager gives access to the persisted repositories.
type RepoManager interface {
	ServerRepository() domain.ServerRepository
	Close()
}
