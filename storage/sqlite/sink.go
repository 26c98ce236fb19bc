// Package sqlite stores collected documents in a sqlite table through gorm.
package sqlite

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sp0x/solrctl/storage/serializers"
	"github.com/sp0x/solrctl/storage/serializers/json"
	"github.com/sp0x/solrctl/store"
)

// Record is a stored document. Body holds the document as json.
type Record struct {
	ID        uint   `gorm:"primary_key"`
	Namespace string `gorm:"index"`
	DocID     string `gorm:"index"`
	Body      string `gorm:"type:text"`
	CreatedAt time.Time
}

type Sink struct {
	Path      string
	namespace string
	db        *gorm.DB
	marshaler serializers.MarshalUnmarshaler
}

// DefaultPath is used when no path is given.
func DefaultPath() string {
	cwd, _ := os.Getwd()
	return path.Join(cwd, "db", "main.db")
}

// GetOrmDb opens the sqlite database at pth and migrates the documents table.
func GetOrmDb(pth string) (*gorm.DB, error) {
	if pth == "" {
		pth = DefaultPath()
	}
	if err := os.MkdirAll(path.Dir(pth), 0755); err != nil {
		return nil, err
	}
	db, err := gorm.Open("sqlite3", pth)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Record{}).Error; err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func NewSink(pth, namespace string) (*Sink, error) {
	db, err := GetOrmDb(pth)
	if err != nil {
		return nil, err
	}
	return &Sink{Path: pth, namespace: namespace, db: db, marshaler: json.Serializer}, nil
}

func (s *Sink) Append(doc store.Document) error {
	body, err := s.marshaler.Marshal(doc)
	if err != nil {
		return err
	}
	rec := &Record{
		Namespace: s.namespace,
		Body:      string(body),
	}
	if id := doc.ID(); id != nil {
		rec.DocID = fmt.Sprint(id)
	}
	return s.db.Create(rec).Error
}

// Count is the number of documents stored in the namespace.
func (s *Sink) Count() int {
	var count int
	s.db.Model(&Record{}).Where("namespace = ?", s.namespace).Count(&count)
	return count
}

// Documents returns the stored documents of the namespace in insertion order.
func (s *Sink) Documents() ([]store.Document, error) {
	var records []Record
	if err := s.db.Where("namespace = ?", s.namespace).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]store.Document, 0, len(records))
	for _, rec := range records {
		var doc store.Document
		if err := s.marshaler.Unmarshal([]byte(rec.Body), &doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// FindByID returns the first stored document with the given id, or nil.
func (s *Sink) FindByID(id string) (store.Document, error) {
	var rec Record
	res := s.db.Where(&Record{Namespace: s.namespace, DocID: id}).First(&rec)
	if res.RecordNotFound() {
		return nil, nil
	}
	if res.Error != nil {
		return nil, res.Error
	}
	var doc store.Document
	if err := s.marshaler.Unmarshal([]byte(rec.Body), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Truncate removes every document of the namespace.
func (s *Sink) Truncate() error {
	return s.db.Unscoped().Where("namespace = ?", s.namespace).Delete(&Record{}).Error
}

func (s *Sink) Close() error {
	return s.db.Close()
}
