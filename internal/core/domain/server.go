package domain

import (
	"context"
	"net/url"
	"strings"
)

// Server is an RPC node the wallet can talk to. Only one server at a time is
// the default one.
type Server struct {
	Address  string
	Username string
	Password string
	Default  bool
}

// NewServer returns a server after making sure the address is a valid
// http(s) url.
func NewServer(address, username, password string) (*Server, error) {
	address = strings.TrimRight(strings.TrimSpace(address), "/")
	u, err := url.ParseRequestURI(address)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidServerAddress
	}
	return &Server{
		Address:  address,
		Username: username,
		Password: password,
	}, nil
}

// ServerRepository is the abstraction for any kind of database intended to
// persist the list of RPC servers.
type ServerRepository interface {
	// AddServer adds the given server to the list. It returns
	// ErrServerAlreadyExists if another server has the same address.
	AddServer(ctx context.Context, server Server) error
	// GetServer returns the server with the given address.
	GetServer(ctx context.Context, address string) (*Server, error)
	// GetDefaultServer returns the server marked as default, if any.
	GetDefaultServer(ctx context.Context) (*Server, error)
	// ListServers returns all servers.
	ListServers(ctx context.Context) ([]Server, error)
	// SetDefaultServer marks the given server as default and unmarks the
	// previous one.
	SetDefaultServer(ctx context.Context, address string) error
	// DeleteServer removes the server with the given address.
	DeleteServer(ctx context.Context, address string) error
}
