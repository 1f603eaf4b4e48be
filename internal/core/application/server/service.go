package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// BalanceInvalidator drops every cached balance of every known account.
type BalanceInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// Service manages the list of RPC servers and the selection of the default
// one.
type Service struct {
	repo     domain.ServerRepository
	switcher ports.ServerSwitcher
	balances BalanceInvalidator
}

func NewService(
	repo domain.ServerRepository, switcher ports.ServerSwitcher,
	balances BalanceInvalidator,
) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("missing server repository")
	}
	if switcher == nil {
		return nil, fmt.Errorf("missing server switcher")
	}
	if balances == nil {
		return nil, fmt.Errorf("missing balance service")
	}
	return &Service{repo, switcher, balances}, nil
}

// Init seeds the given server as default if the list is empty, and points
// the RPC client to the current default one.
func (s *Service) Init(ctx context.Context, seed domain.Server) (*domain.Server, error) {
	servers, err := s.repo.ListServers(ctx)
	if err != nil {
		return nil, err
	}

	if len(servers) <= 0 {
		server, err := domain.NewServer(seed.Address, seed.Username, seed.Password)
		if err != nil {
			return nil, err
		}
		server.Default = true
		if err := s.repo.AddServer(ctx, *server); err != nil {
			return nil, err
		}
		log.WithField("server", server.Address).Info("seeded default rpc server")
	}

	def, err := s.repo.GetDefaultServer(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.switcher.SwitchServer(*def); err != nil {
		return nil, err
	}
	return def, nil
}

func (s *Service) ListServers(ctx context.Context) ([]domain.Server, error) {
	return s.repo.ListServers(ctx)
}

func (s *Service) AddServer(
	ctx context.Context, address, username, password string,
) (*domain.Server, error) {
	server, err := domain.NewServer(address, username, password)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddServer(ctx, *server); err != nil {
		return nil, err
	}
	return server, nil
}

// RemoveServer deletes a server from the list. The default server can never
// be removed.
func (s *Service) RemoveServer(ctx context.Context, address string) error {
	server, err := s.repo.GetServer(ctx, address)
	if err != nil {
		return err
	}
	if server.Default {
		return domain.ErrDefaultServerNotRemovable
	}
	return s.repo.DeleteServer(ctx, address)
}

// SetDefaultServer selects the server to talk to. Switching to a different
// server re-points the RPC client and invalidates every cached balance,
// while re-selecting the current default is a no-op.
func (s *Service) SetDefaultServer(ctx context.Context, address string) error {
	server, err := s.repo.GetServer(ctx, address)
	if err != nil {
		return err
	}

	current, err := s.repo.GetDefaultServer(ctx)
	if err != nil && !errors.Is(err, domain.ErrServerNotFound) {
		return err
	}
	if current != nil && current.Address == server.Address {
		return nil
	}

	if err := s.repo.SetDefaultServer(ctx, server.Address); err != nil {
		return err
	}
	server.Default = true
	if err := s.switcher.SwitchServer(*server); err != nil {
		return err
	}
	if err := s.balances.InvalidateAll(ctx); err != nil {
		return err
	}

	log.WithField("server", server.Address).Info("default rpc server changed")
	return nil
}
