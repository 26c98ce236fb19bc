package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sp0x/solrctl/operations"
	"github.com/sp0x/solrctl/store"
)

type documentsFunc func(ctx context.Context, client store.Client, addr store.Address, docs []store.Document, commit bool) (*store.Ack, error)

func init() {
	rootCmd.AddCommand(documentsCommand("add", "Adds documents to a collection.", operations.Add))
	rootCmd.AddCommand(documentsCommand("update", "Replaces documents by id.", operations.Update))

	cmdDelete := &cobra.Command{
		Use:   "delete <host[:port]> <collection>",
		Short: "Deletes documents by id or by query.",
		Args:  cobra.ExactArgs(2),
		RunE:  deleteCommand,
	}
	cmdFlags := cmdDelete.Flags()
	cmdFlags.StringSlice("id", nil, "The ids of the documents to delete")
	cmdFlags.String("match", "", "Delete every document matching this query")
	cmdFlags.Bool("commit", true, "Commit after the deletion")
	rootCmd.AddCommand(cmdDelete)
}

func documentsCommand(name, short string, fn documentsFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " <host[:port]> <collection> [file]",
		Short: short,
		Long: short + `
Documents are read as json objects or arrays of objects from the file, or from stdin
when no file is given.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(c *cobra.Command, args []string) error {
			commit, _ := c.Flags().GetBool("commit")
			in := io.Reader(os.Stdin)
			if len(args) == 3 && args[2] != "-" {
				f, err := os.Open(args[2])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			docs, err := readDocuments(in)
			if err != nil {
				return err
			}
			return runDocuments(args[0], args[1], func(ctx context.Context, client store.Client, addr store.Address) (*store.Ack, error) {
				return fn(ctx, client, addr, docs, commit)
			}, fmt.Sprintf("%d document(s)", len(docs)), name)
		},
	}
	cmd.Flags().Bool("commit", true, "Commit after writing")
	return cmd
}

func deleteCommand(c *cobra.Command, args []string) error {
	ids, _ := c.Flags().GetStringSlice("id")
	match, _ := c.Flags().GetString("match")
	commit, _ := c.Flags().GetBool("commit")
	if len(ids) == 0 && match == "" {
		return errors.New("either --id or --match is required")
	}
	del := store.DeleteSpec{IDs: ids, Query: match}
	target := fmt.Sprintf("%d id(s)", len(ids))
	if match != "" {
		target = fmt.Sprintf("documents matching %q", match)
	}
	return runDocuments(args[0], args[1], func(ctx context.Context, client store.Client, addr store.Address) (*store.Ack, error) {
		return operations.Delete(ctx, client, addr, del, commit)
	}, target, "delete")
}

func runDocuments(host, collection string, fn func(context.Context, store.Client, store.Address) (*store.Ack, error), what, verb string) error {
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
	ack, err := fn(ctx, client, addr)
	if err != nil {
		return err
	}
	log.WithField("collection", collection).Infof("%s %s (QTime %dms)", verb, what, ack.QTime)
	return nil
}

// readDocuments decodes a stream of json objects or arrays of objects. Numbers keep their
// textual form so that they're written back unchanged.
func readDocuments(r io.Reader) ([]store.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var docs []store.Document
	for {
		var value interface{}
		err := dec.Decode(&value)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("couldn't decode documents: %w", err)
		}
		switch v := value.(type) {
		case map[string]interface{}:
			docs = append(docs, store.Document(v))
		case []interface{}:
			for i, item := range v {
				obj, ok := item.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("item %d is not a json object", i)
				}
				docs = append(docs, store.Document(obj))
			}
		default:
			return nil, fmt.Errorf("expected a json object or array, got %T", value)
		}
	}
	if len(docs) == 0 {
		return nil, errors.New("no documents given")
	}
	return docs, nil
}
