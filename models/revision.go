package models

import (
	"time"

	"gorm.io/datatypes"
)

// RevisionOperation tells whether a save created or overwrote a record.
type RevisionOperation string

const (
	RevisionCreated RevisionOperation = "created"
	RevisionUpdated RevisionOperation = "updated"
)

// Revision is an audit row appended by every successful save. Snapshot holds
// the record and its corrective actions as they were written.
type Revision struct {
	ID          uint              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NCID        uint              `gorm:"column:nc_id;index;not null"        json:"ncId"`
	Number      int64             `gorm:"column:nro_nc;index;not null"       json:"number"`
	Operation   RevisionOperation `gorm:"column:operation;size:16;not null"  json:"operation"`
	ActionCount int               `gorm:"column:action_count;not null"       json:"actionCount"`
	Snapshot    datatypes.JSON    `gorm:"column:snapshot"                    json:"snapshot"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"   json:"createdAt"`
}

// TableName specifies the table name for Revision
func (Revision) TableName() string {
	return "nc_revisions"
}
