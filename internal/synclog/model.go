package synclog

import "time"

// Entry is one append-only record of a sync run.
type Entry struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SyncDate      time.Time `gorm:"column:sync_date;index" json:"sync_date"`
	EventsFetched int       `gorm:"column:events_fetched" json:"events_fetched"`
	EventsNew     int       `gorm:"column:events_new" json:"events_new"`
	EventsUpdated int       `gorm:"column:events_updated" json:"events_updated"`
	Success       bool      `gorm:"column:success" json:"success"`
	ErrorMessage  string    `gorm:"column:error_message" json:"error_message,omitempty"`
}

// TableName overrides table name for Entry
func (Entry) TableName() string {
	return "sync_log"
}
