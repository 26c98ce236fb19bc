package config

import (
	"os"
	"path"
	"strconv"
	"time"

	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"

	"github.com/sp0x/solrctl/store"
)

const appname = "solrctl"

//go:generate mockgen -destination=mocks/mock_config.go -package=mocks . Config
type Config interface {
	GetInt(key string) int
	GetString(key string) string
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	Get(key string) interface{}
	Set(key string, value interface{})
}

func GetMinLogLevel(c Config) log.Level {
	if c.GetBool("verbose") {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// GetAppDir returns ~/.solrctl, creating it when it's missing.
func GetAppDir() string {
	home, _ := homedir.Dir()
	dir := path.Join(home, "."+appname)
	_ = os.MkdirAll(dir, os.ModePerm)
	return dir
}

// DefaultCheckpointsPath is where the checkpoint ledger lives unless configured otherwise.
func DefaultCheckpointsPath() string {
	return path.Join(GetAppDir(), "checkpoints.db")
}

// DefaultSetter registers fallback values that files, env and flags override.
type DefaultSetter interface {
	SetDefault(key string, value interface{})
}

// SetDefaults registers the default value of every recognized key.
func SetDefaults(cfg DefaultSetter) {
	for key, value := range defaults() {
		cfg.SetDefault(key, value)
	}
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		KeyQuery:         store.MatchAll,
		KeyFormat:        store.FormatJSON,
		KeyPageSize:      strconv.Itoa(store.DefaultRows),
		KeySort:          store.DefaultSort,
		KeyRate:          "0s",
		KeyMaxPages:      0,
		KeyCursor:        store.StartCursor,
		KeyLimit:         0,
		KeyScheme:        store.DefaultScheme,
		KeyRoot:          store.DefaultRoot,
		KeyTimeout:       "60s",
		KeyParallel:      1,
		KeyCheckpoints:   DefaultCheckpointsPath(),
		KeyStatusPort:    0,
		KeyPubsubProject: "",
	}
}
