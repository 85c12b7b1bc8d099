package models

import "time"

// ChangeLogDocument is the archived form of a change log.
type ChangeLogDocument struct {
	ID        ObjectID  `bson:"_id,omitempty" json:"id"`
	ChangeLog `bson:",inline"`
	Source    string    `bson:"source" json:"source"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"-"`
}

func (ChangeLogDocument) CollectionName() string {
	return "change_logs"
}

func (d ChangeLogDocument) GetObjectID() ObjectID {
	return d.ID
}

func (d ChangeLogDocument) GetUpdates() any {
	return d
}

type ChangeLogPage struct {
	ChangeLogs []ChangeLogDocument `json:"change_logs"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	Total      int64               `json:"total"`
	TotalPages int64               `json:"total_pages"`
}
