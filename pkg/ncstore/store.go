// Package ncstore persists non-conformance records and their corrective
// actions, reconciling inserts and overwrites by NC number.
package ncstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"p9e.in/ncac/models"
	"p9e.in/ncac/pkg/form"
)

// ConfirmFunc is asked whether an existing NC number may be overwritten.
type ConfirmFunc func(number int64) bool

// SaveResult describes a committed save.
type SaveResult struct {
	Record    models.NonConformance    `json:"record"`
	Operation models.RevisionOperation `json:"operation"`
}

// Store is the persistence gateway for the nc and acciones tables.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates a store on an open, migrated database.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// updatedColumns are overwritten when a save targets an existing number.
var updatedColumns = []string{
	"fecha", "resultado_matriz", "op", "cant_invol", "cod_producto", "desc_producto",
	"cliente", "cant_scrap", "costo", "cant_recuperada", "observaciones", "falla", "ishikawa",
}

// Exists reports whether a record with the number is stored.
func (s *Store) Exists(ctx context.Context, number int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.NonConformance{}).
		Where("nro_nc = ?", number).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check NC %d: %w", number, err)
	}
	return count > 0, nil
}

// Save validates the draft and commits it in one transaction. When the
// number already exists confirm decides between overwriting and cancelling;
// a nil confirm never overwrites.
func (s *Store) Save(ctx context.Context, d Draft, confirm ConfirmFunc) (*SaveResult, error) {
	rec, err := d.Record()
	if err != nil {
		return nil, err
	}

	exists, err := s.Exists(ctx, rec.Number)
	if err != nil {
		return nil, err
	}
	overwrite := false
	if exists {
		if confirm == nil || !confirm(rec.Number) {
			slog.Info("save of existing NC cancelled", "number", rec.Number)
			return nil, fmt.Errorf("%w: NC %d", ErrCancelled, rec.Number)
		}
		overwrite = true
		slog.Info("overwriting existing NC", "number", rec.Number)
	}

	rec.Date = s.now().Format(models.DateLayout)
	op := models.RevisionCreated

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var existing models.NonConformance
	err = tx.Where("nro_nc = ?", rec.Number).Take(&existing).Error
	switch {
	case err == nil:
		if !overwrite {
			tx.Rollback()
			return nil, fmt.Errorf("%w: NC %d", ErrDuplicate, rec.Number)
		}
		rec.ID = existing.ID
		op = models.RevisionUpdated
		if err := tx.Model(&models.NonConformance{}).Where("id = ?", existing.ID).
			Select(updatedColumns).Updates(&rec).Error; err != nil {
			tx.Rollback()
			return nil, s.writeError("update NC", rec.Number, err)
		}
		if err := tx.Where("nc_id = ?", existing.ID).Delete(&models.CorrectiveAction{}).Error; err != nil {
			tx.Rollback()
			return nil, s.writeError("delete actions of NC", rec.Number, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			tx.Rollback()
			return nil, s.writeError("insert NC", rec.Number, err)
		}
	default:
		tx.Rollback()
		return nil, fmt.Errorf("failed to read NC %d: %w", rec.Number, err)
	}

	actions := make([]models.CorrectiveAction, len(d.Actions))
	for i, a := range d.Actions {
		a.ID = 0
		a.NCID = rec.ID
		a.Attachments = append(models.FileList{}, d.Attachments...)
		actions[i] = a
	}
	if len(actions) > 0 {
		if err := tx.Create(&actions).Error; err != nil {
			tx.Rollback()
			return nil, s.writeError("insert actions of NC", rec.Number, err)
		}
	}
	rec.Actions = actions

	snapshot, err := json.Marshal(rec)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to encode revision of NC %d: %w", rec.Number, err)
	}
	rev := models.Revision{
		NCID:        rec.ID,
		Number:      rec.Number,
		Operation:   op,
		ActionCount: len(actions),
		Snapshot:    datatypes.JSON(snapshot),
	}
	if err := tx.Create(&rev).Error; err != nil {
		tx.Rollback()
		return nil, s.writeError("record revision of NC", rec.Number, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit NC %d: %w", rec.Number, err)
	}

	slog.Info("NC saved", "number", rec.Number, "id", rec.ID, "operation", op, "actions", len(actions))
	return &SaveResult{Record: rec, Operation: op}, nil
}

func (s *Store) writeError(what string, number int64, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: NC %d: %v", ErrDuplicate, number, err)
	}
	return fmt.Errorf("failed to %s %d: %w", what, number, err)
}

// FindByNumber returns a record with its corrective actions.
func (s *Store) FindByNumber(ctx context.Context, number int64) (*models.NonConformance, error) {
	var rec models.NonConformance
	err := s.db.WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("nro_nc = ?", number).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: NC %d", ErrNotFound, number)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load NC %d: %w", number, err)
	}
	return &rec, nil
}

// List returns every record ordered by NC number, without actions.
func (s *Store) List(ctx context.Context) ([]models.NonConformance, error) {
	var out []models.NonConformance
	if err := s.db.WithContext(ctx).Order("nro_nc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list NCs: %w", err)
	}
	return out, nil
}

// Revisions returns the audit trail of a number, oldest first.
func (s *Store) Revisions(ctx context.Context, number int64) ([]models.Revision, error) {
	var out []models.Revision
	err := s.db.WithContext(ctx).Where("nro_nc = ?", number).Order("id").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions of NC %d: %w", number, err)
	}
	return out, nil
}

// LookupFields reads a stored record and maps it to form values through the
// chain's field→column table. The key field itself is not returned.
func (s *Store) LookupFields(ctx context.Context, number int64, chain form.Chain) (map[string]string, error) {
	row := map[string]interface{}{}
	err := s.db.WithContext(ctx).Model(&models.NonConformance{}).
		Where("nro_nc = ?", number).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: NC %d", ErrNotFound, number)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load NC %d: %w", number, err)
	}

	out := make(map[string]string, len(chain))
	for name, column := range chain.Columns() {
		v, ok := row[column]
		if !ok {
			slog.Warn("field has no stored column", "field", name, "column", column)
			continue
		}
		out[name] = FormatValue(v)
	}
	return out, nil
}

// Table returns every column and row of the nc table in storage order.
func (s *Store) Table(ctx context.Context) ([]string, [][]interface{}, error) {
	rows, err := s.db.WithContext(ctx).Raw("SELECT * FROM nc ORDER BY id").Rows()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query nc: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan nc row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	return columns, out, rows.Err()
}

// FormatValue renders a stored column value as form text.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(models.DateLayout)
	case sql.NullString:
		return x.String
	}
	return fmt.Sprint(v)
}
