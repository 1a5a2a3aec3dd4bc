package models

import (
	"strconv"
	"time"
)

// Storage directories, one per kind of stored file
const (
	DirOverlays = "overlays"
	DirImagery  = "imagery"
	DirIcons    = "icons"
	DirThumbs   = "thumbs"
)

// FileDeletion queues a stored file for removal. Rows are written in the same transaction
// that deletes or replaces the owning record and removed once the file is gone.
type FileDeletion struct {
	ID        uint      `gorm:"primaryKey"`
	Path      string    `gorm:"type:varchar(300);not null"`
	Created   time.Time `gorm:"not null;index"`
	Attempts  int       `gorm:"not null"`
	LastError string    `gorm:"type:varchar(500)"`
}

func NewFileDeletion(path string, now time.Time) *FileDeletion {
	return &FileDeletion{Path: path, Created: now}
}

func storedPath(dir string, name *string) string {
	if name == nil || *name == "" {
		return ""
	}
	return dir + "/" + *name
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
