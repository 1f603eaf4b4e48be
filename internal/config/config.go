package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/prvwallet/prvwallet/internal/core/application"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the server list, the
	// webhooks and the metrics dumps
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// RPCServerKey is the url of the fullnode seeded as default server when
	// the server list is empty
	RPCServerKey = "RPC_SERVER"
	// RPCUsernameKey and RPCPasswordKey are the optional basic auth
	// credentials of the seeded server
	RPCUsernameKey = "RPC_USERNAME"
	RPCPasswordKey = "RPC_PASSWORD"
	// RPCTimeoutKey is the timeout of every request to the fullnode
	RPCTimeoutKey = "RPC_TIMEOUT"
	// RPCRequestsPerSecondKey limits the rate of requests to the fullnode
	RPCRequestsPerSecondKey = "RPC_REQUESTS_PER_SECOND"
	// AccountsFileKey is the path of the JSON file listing the accounts
	AccountsFileKey = "ACCOUNTS_FILE"
	// EstimationDebounceKey is the quiet window after the last edit before
	// a fee estimation is issued
	EstimationDebounceKey = "ESTIMATION_DEBOUNCE"
	// BurnAddressKey is the burning address stake transactions are sent to
	BurnAddressKey = "BURN_ADDRESS"
	// MinFeePerKbKey is the minimum fee per KB (in PRV) below which a
	// warning is shown on confirmation
	MinFeePerKbKey = "MIN_FEE_PER_KB"
	// EstimatedTxSizeKbKey is the estimated size of a transaction in KB
	EstimatedTxSizeKbKey = "ESTIMATED_TX_SIZE_KB"
	// EnableMetricsKey enables the dump of prometheus metrics on exit
	EnableMetricsKey = "ENABLE_METRICS"

	DbLocation      = "db"
	MetricsLocation = "stats"
	AccountsFile    = "accounts.json"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("prvwallet", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("PRVWALLET")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(RPCServerKey, "https://mainnet.incognito.org/fullnode")
	vip.SetDefault(RPCTimeoutKey, 30*time.Second)
	vip.SetDefault(RPCRequestsPerSecondKey, 10)
	vip.SetDefault(EstimationDebounceKey, 750*time.Millisecond)
	vip.SetDefault(MinFeePerKbKey, "0.000000001")
	vip.SetDefault(EstimatedTxSizeKbKey, "1")
	vip.SetDefault(EnableMetricsKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	log.SetLevel(log.Level(GetInt(LogLevelKey)))
	return nil
}

// Set overrides the value of a key, used to apply command line flags.
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetDecimal returns the value of the key as a decimal. Validated keys are
// always parsable.
func GetDecimal(key string) decimal.Decimal {
	d, _ := decimal.NewFromString(vip.GetString(key))
	return d
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetAccountsFile returns the configured accounts file or the default one
// inside the datadir.
func GetAccountsFile() string {
	if path := GetString(AccountsFileKey); path != "" {
		return path
	}
	return filepath.Join(GetDatadir(), AccountsFile)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	level := GetInt(LogLevelKey)
	if level < int(log.PanicLevel) || level > int(log.TraceLevel) {
		return fmt.Errorf("%s must be in range [%d, %d]",
			LogLevelKey, log.PanicLevel, log.TraceLevel)
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("unsupported db type %s", dbType)
	}

	if u, err := url.ParseRequestURI(GetString(RPCServerKey)); err != nil || u.Host == "" {
		return fmt.Errorf("%s must be a valid url", RPCServerKey)
	}

	if GetDuration(RPCTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", RPCTimeoutKey)
	}
	if GetInt(RPCRequestsPerSecondKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", RPCRequestsPerSecondKey)
	}
	if GetDuration(EstimationDebounceKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", EstimationDebounceKey)
	}

	for _, key := range []string{MinFeePerKbKey, EstimatedTxSizeKbKey} {
		d, err := decimal.NewFromString(GetString(key))
		if err != nil || d.IsNegative() {
			return fmt.Errorf("%s must be a non negative number", key)
		}
	}
	if GetDecimal(EstimatedTxSizeKbKey).IsZero() {
		return fmt.Errorf("%s must be greater than zero", EstimatedTxSizeKbKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if GetString(DBTypeKey) == application.DBBadger {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}

	if GetBool(EnableMetricsKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, MetricsLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
