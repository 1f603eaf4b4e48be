package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	"github.com/prvwallet/prvwallet/pkg/circuitbreaker"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/thanhpk/randstr"
	"go.uber.org/ratelimit"
)

const (
	defaultTimeout           = 30 * time.Second
	defaultRequestsPerSecond = 10
)

type Config struct {
	Server            *domain.Server
	BurnAddress       string
	Timeout           time.Duration
	RequestsPerSecond int
}

// Client talks to the JSON-RPC interface of an Incognito fullnode. Every
// call is rate limited and runs behind a circuit breaker, and nothing is
// ever retried.
type Client struct {
	lock   *sync.RWMutex
	server *domain.Server

	httpClient  *http.Client
	limiter     ratelimit.Limiter
	cb          *gobreaker.CircuitBreaker
	burnAddress string
}

func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}

	c := &Client{
		lock:        &sync.RWMutex{},
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     ratelimit.New(rps),
		cb:          circuitbreaker.NewCircuitBreaker("rpc"),
		burnAddress: cfg.BurnAddress,
	}
	if cfg.Server != nil {
		if err := c.SwitchServer(*cfg.Server); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SwitchServer re-points the client to another fullnode.
func (c *Client) SwitchServer(server domain.Server) error {
	if _, err := domain.NewServer(server.Address, "", ""); err != nil {
		return err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.server = &server
	log.WithField("server", server.Address).Debug("rpc client switched server")
	return nil
}

func (c *Client) currentServer() (domain.Server, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.server == nil {
		return domain.Server{}, ErrMissingServer
	}
	return *c.server, nil
}

// call sends the request and unmarshals the result into res.
func (c *Client) call(
	ctx context.Context, method string, params []interface{}, res interface{},
) error {
	server, err := c.currentServer()
	if err != nil {
		return err
	}

	if params == nil {
		params = []interface{}{}
	}
	body, err := json.Marshal(request{
		JSONRPC: jsonrpcVersion,
		ID:      randstr.Hex(8),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	c.limiter.Take()

	iresp, err := c.cb.Execute(func() (interface{}, error) {
		return c.post(ctx, server, body)
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ports.ErrNetwork, method, err)
	}
	resp := iresp.(*response)

	if resp.Err != nil {
		return fmt.Errorf("%w: %s: %s", ports.ErrNetwork, method, resp.Err)
	}
	if res == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, res); err != nil {
		return fmt.Errorf("%w: %s: unmarshal result: %s", ports.ErrNetwork, method, err)
	}
	return nil
}

func (c *Client) post(
	ctx context.Context, server domain.Server, body []byte,
) (*response, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, server.Address, bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if server.Username != "" || server.Password != "" {
		req.SetBasicAuth(server.Username, server.Password)
	}

	rs, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer rs.Body.Close()

	buf, err := io.ReadAll(rs.Body)
	if err != nil {
		return nil, err
	}
	if rs.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("node responded with status %d", rs.StatusCode)
	}

	resp := &response{}
	if err := json.Unmarshal(buf, resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return resp, nil
}
