package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sp0x/solrctl/config"
	"github.com/sp0x/solrctl/operations"
	"github.com/sp0x/solrctl/server"
	"github.com/sp0x/solrctl/status"
	"github.com/sp0x/solrctl/storage/bolt"
	"github.com/sp0x/solrctl/store"
)

func init() {
	cmdMigrate := &cobra.Command{
		Use:   "migrate <source-host[:port]> <destination-host[:port]> <collection>...",
		Short: "Copies every matching document of each collection to the destination store.",
		Long: `Copies every matching document of each collection to the destination store.
Each page is written and committed before the next one is requested. When a run fails
the last committed cursor is reported, pass it with --cursor to continue from there.`,
		Args: cobra.MinimumNArgs(3),
		RunE: migrateCommand,
	}
	cmdFlags := cmdMigrate.Flags()
	cmdFlags.String("dest-collection", "", "The destination collection, only valid with a single source collection")
	cmdFlags.Int("parallel", 0, "The number of collections migrated at the same time (default 1)")
	cmdFlags.Bool("no-checkpoints", false, "Don't record checkpoints")
	cmdFlags.Int("status-port", 0, "Serve run status on this port, 0 disables the server")
	cmdFlags.String("pubsub-project", "", "Publish progress to pub/sub topics in this Google project")
	bindFlags(cmdFlags, map[string]string{
		"dest_collection":       "dest-collection",
		config.KeyParallel:      "parallel",
		"no_checkpoints":        "no-checkpoints",
		config.KeyStatusPort:    "status-port",
		config.KeyPubsubProject: "pubsub-project",
	})
	rootCmd.AddCommand(cmdMigrate)
}

func migrateCommand(_ *cobra.Command, args []string) error {
	sourceHost, destHost, collections := args[0], args[1], args[2:]
	destCollection := viper.GetString("dest_collection")
	if destCollection != "" && len(collections) > 1 {
		return errors.New("--dest-collection can only be used with a single collection")
	}
	queryOpts, err := config.LoadQueryOptions(&appConfig)
	if err != nil {
		return err
	}
	client, storeOpts, err := newStoreClient()
	if err != nil {
		return err
	}
	sourceBase, err := storeOpts.Address(sourceHost, collections[0])
	if err != nil {
		return err
	}
	destBase, err := storeOpts.Address(destHost, collections[0])
	if err != nil {
		return err
	}
	var runs []*operations.Replicate
	var watched []store.Address
	for _, collection := range collections {
		if collection == "" {
			return errors.New("collection names can't be empty")
		}
		target := collection
		if destCollection != "" {
			target = destCollection
		}
		source, dest := sourceBase.WithCollection(collection), destBase.WithCollection(target)
		watched = append(watched, source, dest)
		runs = append(runs, &operations.Replicate{
			RunID:        operations.NewRunID(),
			SourceClient: client,
			Source:       source,
			DestClient:   client,
			Dest:         dest,
			Query:        queryOpts.Spec,
			Options:      queryOpts.SearchOptions(),
		})
	}
	listeners, cleanup, err := migrationListeners(client, watched)
	if err != nil {
		return err
	}
	defer cleanup()
	for _, run := range runs {
		run.Listeners = listeners
	}

	ctx, cancel := interruptible()
	defer cancel()
	started := time.Now()
	log.Infof("Migrating %d collection(s) from %s to %s", len(runs), sourceHost, destHost)
	results, err := operations.MigrateAll(ctx, runs, appConfig.GetInt(config.KeyParallel))
	printMigrationResults(results)
	log.Infof("Migration started %s finished in %s", humanize.Time(started), time.Since(started).Round(time.Millisecond))
	return err
}

// migrationListeners wires the progress consumers that are enabled in the config.
func migrationListeners(pinger status.Pinger, watched []store.Address) ([]operations.Listener, func(), error) {
	var listeners []operations.Listener
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	if !viper.GetBool("no_checkpoints") {
		checkpointsPath := appConfig.GetString(config.KeyCheckpoints)
		ledger, err := bolt.OpenCheckpoints(checkpointsPath)
		if err != nil {
			return nil, cleanup, fmt.Errorf("couldn't open checkpoints %s: %w", checkpointsPath, err)
		}
		listeners = append(listeners, ledger)
		closers = append(closers, func() { _ = ledger.Close() })
	}
	var publisher status.Publisher
	if project := appConfig.GetString(config.KeyPubsubProject); project != "" {
		if err := status.SetupPubsub(project); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("couldn't set up pubsub: %w", err)
		}
		publisher = status.PubsubPublisher{}
	}
	port := appConfig.GetInt(config.KeyStatusPort)
	if publisher != nil || port > 0 {
		board := status.NewBoard(publisher)
		listeners = append(listeners, board)
		if port > 0 {
			server.New(board, version).
				Watch(status.NewConnectivityCache(pinger, time.Minute), watched...).
				StartInBackground(port)
		}
	}
	return listeners, cleanup, nil
}

func printMigrationResults(results []operations.MigrationResult) {
	for _, res := range results {
		fields := log.Fields{"collection": res.Collection}
		switch {
		case res.Report == nil:
			log.WithFields(fields).Warnf("Not started: %v", res.Err)
		case res.Err != nil:
			fields["run"] = res.Report.Run
			log.WithFields(fields).Errorf("%s. Resume with --cursor %q", res.Err, res.Report.LastCommittedCursor)
		case res.Report.DocumentsWritten == 0:
			log.WithFields(fields).Info("No documents were copied, the query matched nothing")
		default:
			fields["run"] = res.Report.Run
			log.WithFields(fields).Infof("Copied %s of %s documents in %s pages (%s)",
				humanize.Comma(int64(res.Report.DocumentsWritten)),
				humanize.Comma(res.Report.Matched),
				humanize.Comma(int64(res.Report.PagesProcessed)),
				res.Report.Duration().Round(time.Millisecond))
		}
	}
}
