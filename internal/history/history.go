// Package history keeps a sqlite record of past sync runs. The
// reconciler never reads it; every run re-derives state from live
// listings, so this is observability only.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const historyDir = ".playlist-sync"
const historyFile = "history.db"

// Run is one completed (or aborted) sync invocation.
type Run struct {
	ID          uint `gorm:"primarykey"`
	ConfigPath  string
	Transport   string
	ForceUpdate bool
	Copied      int
	Updated     int
	Deleted     int
	Matched     int
	Succeeded   bool
	DurationMS  int64
	CreatedAt   time.Time
}

type Store struct {
	db *gorm.DB
}

func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, historyDir, historyFile)
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %v", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %v", err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %v", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(run *Run) error {
	return s.db.Create(run).Error
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	var runs []Run
	err := s.db.Order("created_at desc").Limit(limit).Find(&runs).Error
	return runs, err
}
