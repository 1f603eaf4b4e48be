package inmemory

import (
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
)

type RepoManager struct {
	serverRepository domain.ServerRepository
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		serverRepository: NewServerRepositoryImpl(),
	}
}

func (d *RepoManager) ServerRepository() domain.ServerRepository {
	return d.serverRepository
}

func (d *RepoManager) Close() {}
