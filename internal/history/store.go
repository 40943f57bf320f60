// internal/history/store.go
package history

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Record is one answered question. The history is an audit log only and is
// never read back into the pipeline.
type Record struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Question  string         `json:"question"`
	Answer    string         `json:"answer"`
	SourceURL string         `json:"source_url"`
	Sources   datatypes.JSON `json:"sources"`
	Outcome   string         `json:"outcome"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store persists answer records
type Store struct {
	db *gorm.DB
}

// Open connects to the history database and migrates the schema. A
// postgres:// DSN selects the postgres driver, anything else is treated as
// a sqlite file path.
func Open(dsn string) (*Store, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}

	log.Printf("History database connected and migrated")
	return &Store{db: db}, nil
}

// Save writes one record, assigning an ID if missing
func (s *Store) Save(rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	return s.db.Create(rec).Error
}

// Recent returns the newest records, most recent first
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []Record
	err := s.db.Order("created_at desc").Limit(limit).Find(&records).Error
	return records, err
}
