package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/sp0x/solrctl/config"
	"github.com/sp0x/solrctl/requests"
	"github.com/sp0x/solrctl/store"
)

var appConfig config.ViperConfig

func initConfig() {
	config.SetDefaults(&appConfig)
	// We load the default config file
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(config.GetAppDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName("solrctl")
	}
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			err = viper.SafeWriteConfigAs(path.Join(config.GetAppDir(), "solrctl.yaml"))
			if err != nil {
				log.Warningf("error while writing default config file: %v\n", err)
			}
		} else {
			log.Warningf("error while reading config file: %v\n", err)
			os.Exit(1)
		}
	}
	log.SetLevel(config.GetMinLogLevel(&appConfig))
}

// newStoreClient builds the store client and resolves the store options.
func newStoreClient() (*store.HTTPClient, config.StoreOptions, error) {
	opts, err := config.LoadStoreOptions(&appConfig)
	if err != nil {
		return nil, opts, err
	}
	var httpClient *http.Client
	httpClient, err = requests.NewClient(opts.Timeout)
	if err != nil {
		return nil, opts, err
	}
	return store.NewHTTPClient(httpClient), opts, nil
}

// interruptible returns a context that's cancelled on SIGINT or SIGTERM.
func interruptible() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-signals:
			log.Warnf("Received %v, stopping", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(signals)
	}()
	return ctx, cancel
}
