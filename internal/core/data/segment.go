package data

import (
	"time"

	"gorm.io/gorm"
)

// Direction of a captured segment relative to the game server.
const (
	ClientToServer = "client"
	ServerToClient = "server"
)

// Segment is one captured TCP payload together with the layout it was decoded
// with, if any.
type Segment struct {
	ID          uint64 `gorm:"primaryKey"`
	Session     string `gorm:"index; not null"`
	Direction   string `gorm:"not null"`
	CapturedAt  time.Time
	Source      string
	Destination string
	Payload     []byte
	// Name of the layout the payload was decoded with; blank if none.
	Layout string
	// Decoded field values as JSON, or blank if the payload was not decoded.
	Decoded     string
	DecodeError string
	CreatedAt   time.Time
}

// SaveSegment persists the Segment record to the database.
func SaveSegment(db *gorm.DB, segment *Segment) error {
	return db.Create(segment).Error
}

// SaveSegments persists the records in a single transaction.
func SaveSegments(db *gorm.DB, segments []Segment) error {
	if len(segments) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&segments).Error
	})
}

// FindSegmentsBySession returns every segment of a session in capture order.
func FindSegmentsBySession(db *gorm.DB, session string) ([]Segment, error) {
	var segments []Segment
	err := db.Where("session = ?", session).Order("captured_at, id").Find(&segments).Error
	return segments, err
}

// DeleteSession permanently removes every segment of a session.
func DeleteSession(db *gorm.DB, session string) error {
	return db.Where("session = ?", session).Delete(&Segment{}).Error
}
