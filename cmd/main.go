package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sp0x/solrctl/config"
)

var rootCmd = &cobra.Command{
	Use:           "solrctl",
	Short:         "Copies and exports documents from Solr collections using cursor pagination.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configFile string

func init() {
	// The prefix applies to keys bound after this point, other commands bind theirs later.
	viper.SetEnvPrefix("SOLRCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	cobra.OnInitialize(initConfig)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "The config file to use (default is ~/.solrctl/solrctl.yaml)")
	flags.BoolP("verbose", "v", false, "Show debug logging")
	flags.StringP("query", "q", "", `The query predicate (default "*:*")`)
	flags.String("wt", "", `The result format, only "json" is supported`)
	flags.String("page-size", "", `Rows per request, a positive number or "all" (default 1000)`)
	flags.String("sort", "", `The sort spec, must include the id field (default "id asc")`)
	flags.Duration("rate", 0, "Delay between successive page requests")
	flags.Int("max-pages", 0, "Stop with an error after this many pages, 0 means no limit")
	flags.String("cursor", "", `The cursor to start from, use it to resume a failed run (default "*")`)
	flags.String("scheme", "", "The scheme of the store (default http)")
	flags.String("root", "", "The index root path (default solr)")
	flags.Duration("timeout", 0, "Per request timeout (default 60s)")
	flags.String("checkpoints", "", "The checkpoint ledger file (default ~/.solrctl/checkpoints.db)")
	bindFlags(flags, map[string]string{
		config.KeyVerbose:     "verbose",
		config.KeyQuery:       "query",
		config.KeyFormat:      "wt",
		config.KeyPageSize:    "page-size",
		config.KeySort:        "sort",
		config.KeyRate:        "rate",
		config.KeyMaxPages:    "max-pages",
		config.KeyCursor:      "cursor",
		config.KeyScheme:      "scheme",
		config.KeyRoot:        "root",
		config.KeyTimeout:     "timeout",
		config.KeyCheckpoints: "checkpoints",
	})
}

// bindFlags binds each config key to its flag and to the matching environment variable.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
		_ = viper.BindEnv(key)
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
