package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sp0x/solrctl/config"
	"github.com/sp0x/solrctl/operations"
	"github.com/sp0x/solrctl/storage"
)

func init() {
	cmdSearch := &cobra.Command{
		Use:   "search <host[:port]> <collection>",
		Short: "Collects every matching document of a collection into a sink.",
		Long: `Collects every matching document of a collection into a sink.
Without --out documents are printed to stdout, one json document per line.`,
		Args: cobra.ExactArgs(2),
		RunE: searchCommand,
	}
	cmdFlags := cmdSearch.Flags()
	cmdFlags.StringP("out", "o", "", "The output file or database path, - for stdout")
	cmdFlags.String("storage", storage.BackingFile, `The storage backing to use.
Currently supported storage backings: `+strings.Join(storage.Backings(), ", "))
	cmdFlags.String("format", storage.FormatNDJSON, "The file format, ndjson or yaml")
	cmdFlags.String("namespace", "", "The namespace of the documents in database backings, defaults to the collection")
	cmdFlags.Int("limit", 0, "Stop after this many documents, 0 collects every match")
	cmdFlags.Bool("reset", false, "Empty the namespace of database backings before collecting")
	cmdFlags.String("firebase_project", "", "The project id for firebase")
	cmdFlags.String("firebase_credentials_file", "", "The service credentials for firebase")
	bindFlags(cmdFlags, map[string]string{
		"out":                       "out",
		"storage":                   "storage",
		"format":                    "format",
		"namespace":                 "namespace",
		config.KeyLimit:             "limit",
		"reset":                     "reset",
		"firebase_project":          "firebase_project",
		"firebase_credentials_file": "firebase_credentials_file",
	})
	rootCmd.AddCommand(cmdSearch)
}

func searchCommand(_ *cobra.Command, args []string) error {
	host, collection := args[0], args[1]
	queryOpts, err := config.LoadQueryOptions(&appConfig)
	if err != nil {
		return err
	}
	client, storeOpts, err := newStoreClient()
	if err != nil {
		return err
	}
	addr, err := storeOpts.Address(host, collection)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()
	namespace := viper.GetString("namespace")
	if namespace == "" {
		namespace = collection
	}
	sink, err := storage.NewBuilder().
		WithContext(ctx).
		WithBacking(viper.GetString("storage")).
		WithEndpoint(viper.GetString("out")).
		WithFormat(viper.GetString("format")).
		WithNamespace(namespace).
		WithReset(viper.GetBool("reset")).
		WithWriter(os.Stdout).
		WithFirestore(viper.GetString("firebase_project"), viper.GetString("firebase_credentials_file")).
		Build()
	if err != nil {
		return err
	}

	op := &operations.Collect{
		RunID:   operations.NewRunID(),
		Client:  client,
		Address: addr,
		Query:   queryOpts.Spec,
		Options: queryOpts.SearchOptions(),
		Sink:    sink,
		Limit:   queryOpts.Limit,
	}
	report, runErr := execute(ctx, op)
	closeErr := sink.Close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("couldn't close %s sink: %w", viper.GetString("storage"), closeErr)
	}
	if counter, ok := sink.(storage.Counter); ok {
		log.Debugf("Sink holds %s documents", humanize.Comma(int64(counter.Count())))
	}
	if collected := report.(*operations.CollectionReport); collected.Truncated {
		log.Infof("Stopped after %s documents", humanize.Comma(int64(collected.Documents)))
	}
	return nil
}
