package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/prvwallet/prvwallet/internal/core/domain"
)

// ServerRepositoryImpl represents an in memory storage
type ServerRepositoryImpl struct {
	servers map[string]domain.Server

	lock *sync.RWMutex
}

// NewServerRepositoryImpl returns a new empty ServerRepositoryImpl
func NewServerRepositoryImpl() *ServerRepositoryImpl {
	return &ServerRepositoryImpl{
		servers: map[string]domain.Server{},
		lock:    &sync.RWMutex{},
	}
}

func (r *ServerRepositoryImpl) AddServer(
	_ context.Context, server domain.Server,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.servers[server.Address]; ok {
		return ErrServerAlreadyExists
	}
	r.servers[server.Address] = server
	return nil
}

func (r *ServerRepositoryImpl) GetServer(
	_ context.Context, address string,
) (*domain.Server, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	server, ok := r.servers[address]
	if !ok {
		return nil, ErrServerNotFound
	}
	return &server, nil
}

func (r *ServerRepositoryImpl) GetDefaultServer(
	_ context.Context,
) (*domain.Server, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, server := range r.servers {
		if server.Default {
			s := server
			return &s, nil
		}
	}
	return nil, ErrServerNotFound
}

func (r *ServerRepositoryImpl) ListServers(
	_ context.Context,
) ([]domain.Server, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	servers := make([]domain.Server, 0, len(r.servers))
	for _, server := range r.servers {
		servers = append(servers, server)
	}
	sort.SliceStable(servers, func(i, j int) bool {
		return servers[i].Address < servers[j].Address
	})
	return servers, nil
}

func (r *ServerRepositoryImpl) SetDefaultServer(
	_ context.Context, address string,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.servers[address]; !ok {
		return ErrServerNotFound
	}
	for addr, server := range r.servers {
		server.Default = addr == address
		r.servers[addr] = server
	}
	return nil
}

func (r *ServerRepositoryImpl) DeleteServer(
	_ context.Context, address string,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.servers[address]; !ok {
		return ErrServerNotFound
	}
	delete(r.servers, address)
	return nil
}
