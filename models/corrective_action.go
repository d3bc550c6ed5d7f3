package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// ActionStatus is the lifecycle state of a corrective action. The stored
// values are the labels shown to operators.
type ActionStatus string

const (
	ActionOpen       ActionStatus = "Abierta"
	ActionInProgress ActionStatus = "En curso"
	ActionClosed     ActionStatus = "Cerrada"
)

// ActionStatuses lists the valid statuses in display order.
var ActionStatuses = []ActionStatus{ActionOpen, ActionInProgress, ActionClosed}

// ParseActionStatus accepts either the stored label or an english alias
// (open, in_progress, closed). Empty input yields ActionOpen.
func ParseActionStatus(s string) (ActionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abierta", "open":
		return ActionOpen, nil
	case "en curso", "in_progress", "in progress":
		return ActionInProgress, nil
	case "cerrada", "closed":
		return ActionClosed, nil
	}
	return "", fmt.Errorf("unknown action status %q", s)
}

// Valid reports whether s is one of ActionStatuses.
func (s ActionStatus) Valid() bool {
	for _, v := range ActionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CorrectiveAction is a remediation task owned by one NonConformance
// (table "acciones").
type CorrectiveAction struct {
	ID            uint         `gorm:"column:id;primaryKey;autoIncrement"   json:"id"`
	NCID          uint         `gorm:"column:nc_id;index"                   json:"ncId"`
	Task          string       `gorm:"column:tarea;type:text"               json:"task"`
	EstimatedTime string       `gorm:"column:tiempo_estimado;type:text"     json:"estimatedTime"`
	Responsible   string       `gorm:"column:responsable;type:text"         json:"responsible"`
	DueDate       string       `gorm:"column:fecha_realizacion;type:text"   json:"dueDate"`
	Status        ActionStatus `gorm:"column:estado;type:text"              json:"status"`
	Attachments   FileList     `gorm:"column:adjuntos"                      json:"attachments"`
}

// TableName keeps the table name used by existing databases.
func (CorrectiveAction) TableName() string {
	return "acciones"
}

// DueDateLayout is the layout of CorrectiveAction.DueDate.
const DueDateLayout = "2006-01-02"

// FileListSeparator joins attachment filenames in the adjuntos column.
const FileListSeparator = "||"

// FileList is a list of stored attachment filenames persisted as one
// delimited text column.
type FileList []string

// Scan implements the sql.Scanner interface for FileList
func (f *FileList) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*f = FileList{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("FileList.Scan: unsupported type %T", value)
	}
	if s == "" {
		*f = FileList{}
		return nil
	}
	*f = strings.Split(s, FileListSeparator)
	return nil
}

// Value implements the driver.Valuer interface for FileList
func (f FileList) Value() (driver.Value, error) {
	return strings.Join(f, FileListSeparator), nil
}

// GormDataType defines the data type for GORM
func (FileList) GormDataType() string {
	return "text"
}
