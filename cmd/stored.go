package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sp0x/solrctl/storage"
)

func init() {
	cmdStored := &cobra.Command{
		Use:   "stored <namespace>",
		Short: "Prints documents a previous search collected into a database backing.",
		Args:  cobra.ExactArgs(1),
		RunE:  storedCommand,
	}
	cmdFlags := cmdStored.Flags()
	cmdFlags.String("storage", storage.BackingBolt, `The storage backing to read.
Readable storage backings: `+strings.Join([]string{storage.BackingBolt, storage.BackingSqlite, storage.BackingFirebase}, ", "))
	cmdFlags.StringP("db", "d", "", "The database path")
	cmdFlags.String("format", storage.FormatNDJSON, "The output format, ndjson or yaml")
	cmdFlags.Int("limit", 0, "Print at most this many documents, 0 prints all of them")
	cmdFlags.String("id", "", "Print only the document with this id")
	cmdFlags.Bool("count", false, "Print the number of stored documents instead")
	cmdFlags.String("firebase_project", "", "The project id for firebase")
	cmdFlags.String("firebase_credentials_file", "", "The service credentials for firebase")
	rootCmd.AddCommand(cmdStored)
}

func storedCommand(c *cobra.Command, args []string) error {
	flags := c.Flags()
	backing, _ := flags.GetString("storage")
	if backing == storage.BackingFile || backing == storage.BackingMemory {
		return fmt.Errorf("storage backing %q can't be read back", backing)
	}
	dbPath, _ := flags.GetString("db")
	project, _ := flags.GetString("firebase_project")
	credentials, _ := flags.GetString("firebase_credentials_file")
	ctx, cancel := interruptible()
	defer cancel()
	sink, err := storage.NewBuilder().
		WithContext(ctx).
		WithBacking(backing).
		WithEndpoint(dbPath).
		WithNamespace(args[0]).
		WithFirestore(project, credentials).
		Build()
	if err != nil {
		return err
	}
	defer sink.Close()

	if count, _ := flags.GetBool("count"); count {
		size, err := storage.Size(sink)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, humanize.Comma(size))
		return err
	}
	format, _ := flags.GetString("format")
	id, _ := flags.GetString("id")
	limit, _ := flags.GetInt("limit")
	return printStored(os.Stdout, sink, format, id, limit)
}

// printStored writes the stored documents, or the single one with id, to w.
func printStored(w io.Writer, sink storage.Sink, format, id string, limit int) error {
	out, err := storage.NewWriterSink(w, format)
	if err != nil {
		return err
	}
	if id != "" {
		doc, err := storage.FindDocument(sink, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("no document with id %q", id)
		}
		if err := out.Append(doc); err != nil {
			return err
		}
		return out.Close()
	}
	docs, err := storage.ReadDocuments(sink, limit)
	if errors.Is(err, storage.ErrNotReadable) {
		return fmt.Errorf("this storage backing can't be read back")
	}
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := out.Append(doc); err != nil {
			return err
		}
	}
	return out.Close()
}
