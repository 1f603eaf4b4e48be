package application

import (
	"fmt"
	"time"

	"github.com/prvwallet/prvwallet/internal/core/application/balance"
	"github.com/prvwallet/prvwallet/internal/core/application/draft"
	"github.com/prvwallet/prvwallet/internal/core/application/pubsub"
	"github.com/prvwallet/prvwallet/internal/core/application/server"
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	dbbadger "github.com/prvwallet/prvwallet/internal/infrastructure/storage/db/badger"
	"github.com/prvwallet/prvwallet/internal/infrastructure/storage/db/inmemory"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

// RPCClient is the wallet RPC collaborator, that must also be able to
// switch to another server.
type RPCClient interface {
	ports.WalletRPC
	ports.ServerSwitcher
}

type Config struct {
	DBType   string
	DBConfig interface{}

	RPC        RPCClient
	Accounts   ports.AccountRegistry
	PubSub     ports.PubSub
	Metrics    ports.Metrics
	SeedServer domain.Server

	EstimationDebounce time.Duration
	MinFeePerKb        decimal.Decimal
	EstimatedTxSizeKb  decimal.Decimal

	repo    ports.RepoManager
	cache   ports.BalanceCache
	balance *balance.Service
	server  *server.Service
	pubsub  *pubsub.Service
	draft   *draft.Service
}

func (c *Config) Validate() error {
	if c.RPC == nil {
		return fmt.Errorf("missing rpc client")
	}
	if c.Accounts == nil {
		return fmt.Errorf("missing account registry")
	}
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if c.Metrics == nil {
		c.Metrics = ports.NoopMetrics{}
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) BalanceService() *balance.Service {
	svc, _ := c.balanceService()
	return svc
}

func (c *Config) ServerService() *server.Service {
	svc, _ := c.serverService()
	return svc
}

// PubSubService returns nil if webhooks are not enabled.
func (c *Config) PubSubService() *pubsub.Service {
	svc, _ := c.pubsubService()
	return svc
}

func (c *Config) DraftService() *draft.Service {
	svc, _ := c.draftService()
	return svc
}

// Close closes the open drafts and the stores.
func (c *Config) Close() {
	if c.draft != nil {
		c.draft.CloseAll()
	}
	if c.pubsub != nil {
		c.pubsub.Close()
	}
	if c.repo != nil {
		c.repo.Close()
	}
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		default:
			c.repo = inmemory.NewRepoManager()
		}
	}
	return c.repo, nil
}

func (c *Config) balanceService() (*balance.Service, error) {
	if c.balance == nil {
		if c.cache == nil {
			c.cache = inmemory.NewBalanceCache()
		}
		svc, err := balance.NewService(c.RPC, c.cache, c.Accounts)
		if err != nil {
			return nil, err
		}
		c.balance = svc
	}
	return c.balance, nil
}

func (c *Config) serverService() (*server.Service, error) {
	if c.server == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		balances, err := c.balanceService()
		if err != nil {
			return nil, err
		}
		svc, err := server.NewService(repo.ServerRepository(), c.RPC, balances)
		if err != nil {
			return nil, err
		}
		c.server = svc
	}
	return c.server, nil
}

func (c *Config) pubsubService() (*pubsub.Service, error) {
	if c.pubsub == nil && c.PubSub != nil {
		c.pubsub = pubsub.NewService(c.PubSub)
	}
	return c.pubsub, nil
}

func (c *Config) draftService() (*draft.Service, error) {
	if c.draft == nil {
		balances, err := c.balanceService()
		if err != nil {
			return nil, err
		}
		var decorate draft.ListenerDecorator
		if ps, _ := c.pubsubService(); ps != nil {
			decorate = func(
				account domain.Account, kind domain.DraftKind,
				listener ports.DraftListener,
			) ports.DraftListener {
				return ps.NewNotifyingListener(listener, account, kind)
			}
		}
		svc, err := draft.NewService(draft.Config{
			RPC:               c.RPC,
			Balances:          balances,
			Accounts:          c.Accounts,
			Metrics:           c.Metrics,
			Decorate:          decorate,
			Debounce:          c.EstimationDebounce,
			MinFeePerKb:       c.MinFeePerKb,
			EstimatedTxSizeKb: c.EstimatedTxSizeKb,
		})
		if err != nil {
			return nil, err
		}
		c.draft = svc
	}
	return c.draft, nil
}
