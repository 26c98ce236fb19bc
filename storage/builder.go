package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sp0x/solrctl/storage/bolt"
	"github.com/sp0x/solrctl/storage/firebase"
	"github.com/sp0x/solrctl/storage/sqlite"
)

// Backing names accepted by Builder.WithBacking.
const (
	BackingFile     = "file"
	BackingMemory   = "memory"
	BackingBolt     = "boltdb"
	BackingSqlite   = "sqlite"
	BackingFirebase = "firebase"
)

var sinkBackingMap = make(map[string]func(builder *Builder) (Sink, error))

func NewBuilder() *Builder {
	b := &Builder{}
	return b.WithDefaultBacking()
}

type Builder struct {
	backingType     string
	endpoint        string
	namespace       string
	format          string
	writer          io.Writer
	project         string
	credentialsFile string
	reset           bool
	ctx             context.Context
}

func (b *Builder) WithBacking(backingType string) *Builder {
	b.backingType = backingType
	return b
}

func (b *Builder) WithDefaultBacking() *Builder {
	b.backingType = BackingFile
	return b
}

// WithEndpoint sets the file or database path the sink writes to.
func (b *Builder) WithEndpoint(endpoint string) *Builder {
	b.endpoint = endpoint
	return b
}

// WithNamespace groups documents inside a shared database, usually by collection.
func (b *Builder) WithNamespace(ns string) *Builder {
	b.namespace = ns
	return b
}

func (b *Builder) WithFormat(format string) *Builder {
	b.format = format
	return b
}

// WithWriter is used by the file backing when no endpoint is set.
func (b *Builder) WithWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

func (b *Builder) WithFirestore(project, credentialsFile string) *Builder {
	b.project = project
	b.credentialsFile = credentialsFile
	return b
}

// WithReset empties the namespace of database backings before the sink is returned.
func (b *Builder) WithReset(reset bool) *Builder {
	b.reset = reset
	return b
}

func (b *Builder) WithContext(ctx context.Context) *Builder {
	b.ctx = ctx
	return b
}

func (b *Builder) Build() (Sink, error) {
	bfn, ok := sinkBackingMap[b.backingType]
	if !ok {
		return nil, fmt.Errorf("unsupported storage backing %q, use one of %v", b.backingType, Backings())
	}
	sink, err := bfn(b)
	if err != nil || !b.reset {
		return sink, err
	}
	switch t := sink.(type) {
	case Truncater:
		if err := t.Truncate(); err != nil {
			_ = sink.Close()
			return nil, fmt.Errorf("couldn't reset %s storage: %w", b.backingType, err)
		}
	case *MemorySink, *FileSink:
		// these always start empty
	default:
		_ = sink.Close()
		return nil, fmt.Errorf("storage backing %q can't be reset", b.backingType)
	}
	return sink, nil
}

// Backings lists the registered backing names.
func Backings() []string {
	names := make([]string, 0, len(sinkBackingMap))
	for name := range sinkBackingMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *Builder) context() context.Context {
	if b.ctx == nil {
		return context.Background()
	}
	return b.ctx
}

func init() {
	sinkBackingMap[BackingFile] = func(builder *Builder) (Sink, error) {
		if builder.endpoint == "" || builder.endpoint == "-" {
			w := builder.writer
			if w == nil {
				w = os.Stdout
			}
			return NewWriterSink(w, builder.format)
		}
		return NewFileSink(builder.endpoint, builder.format)
	}
	sinkBackingMap[BackingMemory] = func(builder *Builder) (Sink, error) {
		return NewMemorySink(), nil
	}
	sinkBackingMap[BackingBolt] = func(builder *Builder) (Sink, error) {
		return bolt.NewSink(builder.endpoint, builder.namespace)
	}
	sinkBackingMap[BackingSqlite] = func(builder *Builder) (Sink, error) {
		return sqlite.NewSink(builder.endpoint, builder.namespace)
	}
	sinkBackingMap[BackingFirebase] = func(builder *Builder) (Sink, error) {
		conf := &firebase.FirestoreConfig{
			ProjectID:       builder.project,
			CredentialsFile: builder.credentialsFile,
			Collection:      builder.namespace,
		}
		return firebase.NewFirestoreSink(builder.context(), conf)
	}
}
