package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the daemon
	DatadirKey = "DATA_DIR_PATH"
	// LogLevelKey are the different logging levels. For reference on the values
	// https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// ChainsKey is the comma separated list of chain keys to reconcile
	ChainsKey = "CHAINS"
	// ScanIntervalKey is the interval in milliseconds between two scans of the
	// same chain
	ScanIntervalKey = "SCAN_INTERVAL"
	// ExplorerRequestTimeoutKey are the milliseconds to wait for HTTP
	// responses before timeouts
	ExplorerRequestTimeoutKey = "EXPLORER_REQUEST_TIMEOUT"
	// ExplorerRateLimitKey represents the number of requests per second
	// allowed against the explorer of each chain
	ExplorerRateLimitKey = "EXPLORER_RATE_LIMIT"

	// DbLocation is the folder inside the datadir containing the ledger db
	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("reconcilerd", false)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("RECONCILER")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, int(log.InfoLevel))
	vip.SetDefault(ChainsKey, "bitcoin")
	vip.SetDefault(ScanIntervalKey, 10000)
	vip.SetDefault(ExplorerRequestTimeoutKey, 30000)
	vip.SetDefault(ExplorerRateLimitKey, 10)

	if err := validate(); err != nil {
		log.Fatalf("error while validating config: %s", err)
	}
}

// GetString returns the value of the key as a string
func GetString(key string) string {
	return vip.GetString(key)
}

// GetInt returns the value of the key as an int
func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetDuration returns the value of the key, given in milliseconds, as a
// time.Duration
func GetDuration(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Millisecond
}

// GetChains returns the chain keys the daemon must reconcile
func GetChains() []string {
	chains := strings.Split(GetString(ChainsKey), ",")
	keys := make([]string, 0, len(chains))
	for _, chain := range chains {
		if key := strings.TrimSpace(chain); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// GetChainEndpoint returns the explorer endpoint configured for the given
// chain via RECONCILER_EXPLORER_ENDPOINT_<CHAIN>
func GetChainEndpoint(chainKey string) string {
	key := fmt.Sprintf("EXPLORER_ENDPOINT_%s", strings.ToUpper(chainKey))
	return vip.GetString(key)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if err := makeDirectoryIfNotExists(datadir); err != nil {
		return fmt.Errorf("creating datadir: %w", err)
	}

	if len(GetChains()) == 0 {
		return fmt.Errorf("%s must name at least one chain", ChainsKey)
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
