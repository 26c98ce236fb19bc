package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/sp0x/solrctl/store"
)

// Formats understood by the file sink.
const (
	FormatNDJSON = "ndjson"
	FormatYAML   = "yaml"
)

// FileSink writes one document per record to a file or any writer. ndjson puts one json
// object on each line, yaml writes a stream of documents separated by "---".
type FileSink struct {
	mu      sync.Mutex
	format  string
	w       *bufio.Writer
	closer  io.Closer
	count   int
	encoder *json.Encoder
}

// NewFileSink creates (or truncates) path.
func NewFileSink(path, format string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s, err := NewWriterSink(f, format)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// NewWriterSink writes to w. Close flushes but doesn't close w.
func NewWriterSink(w io.Writer, format string) (*FileSink, error) {
	if format == "" {
		format = FormatNDJSON
	}
	if format != FormatNDJSON && format != FormatYAML {
		return nil, fmt.Errorf("unsupported file format %q", format)
	}
	s := &FileSink{
		format: format,
		w:      bufio.NewWriter(w),
	}
	s.encoder = json.NewEncoder(s.w)
	s.encoder.SetEscapeHTML(false)
	return s, nil
}

func (s *FileSink) Append(doc store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	switch s.format {
	case FormatYAML:
		err = s.appendYAML(doc)
	default:
		err = s.encoder.Encode(doc)
	}
	if err != nil {
		return err
	}
	s.count++
	return nil
}

func (s *FileSink) appendYAML(doc store.Document) error {
	raw, err := yaml.Marshal(doc.Plain())
	if err != nil {
		return err
	}
	if _, err := s.w.WriteString("---\n"); err != nil {
		return err
	}
	_, err = s.w.Write(raw)
	return err
}

func (s *FileSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
		s.closer = nil
	}
	return err
}
