package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type serverRepositoryImpl struct {
	store *badgerhold.Store
}

// NewServerRepositoryImpl initialize a badger implementation of the
// domain.ServerRepository
func NewServerRepositoryImpl(store *badgerhold.Store) domain.ServerRepository {
	return serverRepositoryImpl{store}
}

func (s serverRepositoryImpl) AddServer(
	_ context.Context, server domain.Server,
) error {
	if err := s.store.Insert(server.Address, &server); err != nil {
		if err == badgerhold.ErrKeyExists {
			return ErrServerAlreadyExists
		}
		return err
	}
	return nil
}

func (s serverRepositoryImpl) GetServer(
	_ context.Context, address string,
) (*domain.Server, error) {
	var server domain.Server
	if err := s.store.Get(address, &server); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, ErrServerNotFound
		}
		return nil, err
	}
	return &server, nil
}

func (s serverRepositoryImpl) GetDefaultServer(
	_ context.Context,
) (*domain.Server, error) {
	var servers []domain.Server
	query := badgerhold.Where("Default").Eq(true)
	if err := s.store.Find(&servers, query); err != nil {
		return nil, err
	}
	if len(servers) <= 0 {
		return nil, ErrServerNotFound
	}
	return &servers[0], nil
}

func (s serverRepositoryImpl) ListServers(
	_ context.Context,
) ([]domain.Server, error) {
	var servers []domain.Server
	query := (&badgerhold.Query{}).SortBy("Address")
	if err := s.store.Find(&servers, query); err != nil {
		return nil, err
	}
	return servers, nil
}

func (s serverRepositoryImpl) SetDefaultServer(
	ctx context.Context, address string,
) error {
	if _, err := s.GetServer(ctx, address); err != nil {
		return err
	}

	return s.store.Badger().Update(func(tx *badger.Txn) error {
		var servers []domain.Server
		if err := s.store.TxFind(tx, &servers, nil); err != nil {
			return err
		}
		for i := range servers {
			server := servers[i]
			isDefault := server.Address == address
			if server.Default == isDefault {
				continue
			}
			server.Default = isDefault
			if err := s.store.TxUpdate(tx, server.Address, &server); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s serverRepositoryImpl) DeleteServer(
	_ context.Context, address string,
) error {
	if err := s.store.Delete(address, domain.Server{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return ErrServerNotFound
		}
		return err
	}
	return nil
}
