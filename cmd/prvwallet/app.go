package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prvwallet/prvwallet/internal/config"
	"github.com/prvwallet/prvwallet/internal/core/application"
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	"github.com/prvwallet/prvwallet/internal/infrastructure/accounts"
	"github.com/prvwallet/prvwallet/internal/infrastructure/pubsub"
	rpcclient "github.com/prvwallet/prvwallet/internal/infrastructure/rpc-client"
	"github.com/prvwallet/prvwallet/pkg/stats"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var flagsToEnv = map[string]string{
	"datadir":   "PRVWALLET_" + config.DatadirKey,
	"accounts":  "PRVWALLET_" + config.AccountsFileKey,
	"rpcserver": "PRVWALLET_" + config.RPCServerKey,
}

// initConfig lets the global flags override the environment before the
// config is loaded.
func initConfig(ctx *cli.Context) error {
	for flag, env := range flagsToEnv {
		if ctx.IsSet(flag) {
			if err := os.Setenv(env, ctx.String(flag)); err != nil {
				return err
			}
		}
	}
	return config.InitConfig()
}

// newApp wires the application services from the config. The returned
// cleanup must always be called.
func newApp(ctx context.Context) (*application.Config, func(), error) {
	registry, err := accounts.NewFileRegistry(config.GetAccountsFile())
	if err != nil {
		return nil, nil, err
	}

	rpc, err := rpcclient.NewClient(rpcclient.Config{
		BurnAddress:       config.GetString(config.BurnAddressKey),
		Timeout:           config.GetDuration(config.RPCTimeoutKey),
		RequestsPerSecond: config.GetInt(config.RPCRequestsPerSecondKey),
	})
	if err != nil {
		return nil, nil, err
	}

	dbType := config.GetString(config.DBTypeKey)
	var dbDir string
	if dbType == application.DBBadger {
		dbDir = filepath.Join(config.GetDatadir(), config.DbLocation)
	}

	ps, err := pubsub.NewService(dbDir, log.New())
	if err != nil {
		return nil, nil, err
	}

	var metrics ports.Metrics = ports.NoopMetrics{}
	var promMetrics *stats.Metrics
	if config.GetBool(config.EnableMetricsKey) {
		if promMetrics, err = stats.NewMetrics(); err != nil {
			return nil, nil, err
		}
		metrics = promMetrics
	}

	appConfig := &application.Config{
		DBType:   dbType,
		DBConfig: dbDir,
		RPC:      rpc,
		Accounts: registry,
		PubSub:   ps,
		Metrics:  metrics,
		SeedServer: domain.Server{
			Address:  config.GetString(config.RPCServerKey),
			Username: config.GetString(config.RPCUsernameKey),
			Password: config.GetString(config.RPCPasswordKey),
		},
		EstimationDebounce: config.GetDuration(config.EstimationDebounceKey),
		MinFeePerKb:        config.GetDecimal(config.MinFeePerKbKey),
		EstimatedTxSizeKb:  config.GetDecimal(config.EstimatedTxSizeKbKey),
	}
	if err := appConfig.Validate(); err != nil {
		//nolint
		ps.Close()
		return nil, nil, err
	}

	cleanup := func() {
		appConfig.Close()
		if promMetrics != nil {
			filename := filepath.Join(
				config.GetDatadir(), config.MetricsLocation,
				fmt.Sprintf("metrics-%d.prom", time.Now().Unix()),
			)
			if err := promMetrics.Dump(filename); err != nil {
				log.WithError(err).Warn("failed to dump metrics")
			}
		}
	}

	if _, err := appConfig.ServerService().Init(ctx, appConfig.SeedServer); err != nil {
		cleanup()
		return nil, nil, err
	}

	return appConfig, cleanup, nil
}
