package ncstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"p9e.in/ncac/config"
	"p9e.in/ncac/models"
	"p9e.in/ncac/pkg/form"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := config.Connect(config.Config{
		DBDriver: config.DriverSQLite,
		DBDSN:    filepath.Join(t.TempDir(), "nc.db"),
	})
	require.NoError(t, err)
	s := New(db)
	s.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }
	return s, db
}

func sampleDraft(number string) Draft {
	return Draft{
		Values: map[string]string{
			form.FieldNumber:             number,
			form.FieldMatrixResult:       "3.5",
			form.FieldOrderNumber:        "4411",
			form.FieldQuantityInvolved:   "120",
			form.FieldProductCode:        "P-77",
			form.FieldProductDescription: "Bracket",
			form.FieldClient:             "Acme",
			form.FieldScrapQuantity:      "4",
			form.FieldCost:               "99.9",
			form.FieldRecoveredQuantity:  "116",
			form.FieldFailure:            "Burr on edge",
		},
		RootCause: "Máquina:|worn tool||||||||",
		Actions: []models.CorrectiveAction{
			{Task: "Replace tool", EstimatedTime: "2h", Responsible: "Ana", DueDate: "2026-10-20", Status: models.ActionOpen},
			{Task: "Train operator", EstimatedTime: "1d", Responsible: "Luis", DueDate: "2026-10-25", Status: models.ActionInProgress},
		},
		Attachments: []string{"20261019093000_photo.jpg", "20261019093001_report.pdf"},
	}
}

func always(int64) bool { return true }
func never(int64) bool  { return false }

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

// failActionInserts makes every insert into acciones abort.
func failActionInserts(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Exec(`CREATE TRIGGER fail_actions BEFORE INSERT ON acciones
		BEGIN SELECT RAISE(ABORT, 'action insert rejected'); END`).Error)
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("should insert one record and one row per pending action", func(t *testing.T) {
		s, db := newTestStore(t)

		res, err := s.Save(ctx, sampleDraft("101"), never)
		require.NoError(t, err)
		assert.Equal(t, models.RevisionCreated, res.Operation)

		assert.EqualValues(t, 1, countRows(t, db, &models.NonConformance{}, ""))
		assert.EqualValues(t, 2, countRows(t, db, &models.CorrectiveAction{}, "nc_id = ?", res.Record.ID))

		rec, err := s.FindByNumber(ctx, 101)
		require.NoError(t, err)
		assert.Equal(t, "2026-10-19 09:30:00", rec.Date)
		assert.Equal(t, 3.5, rec.MatrixResult)
		assert.EqualValues(t, 4411, rec.OrderNumber)
		assert.Equal(t, "Burr on edge", rec.Failure)
		assert.Equal(t, "Máquina:|worn tool||||||||", rec.RootCause)
		require.Len(t, rec.Actions, 2)
		for _, a := range rec.Actions {
			assert.Equal(t, models.FileList{"20261019093000_photo.jpg", "20261019093001_report.pdf"}, a.Attachments)
		}
	})

	t.Run("should overwrite fields and replace actions of an existing number when confirmed", func(t *testing.T) {
		s, db := newTestStore(t)
		first, err := s.Save(ctx, sampleDraft("101"), never)
		require.NoError(t, err)

		d := sampleDraft("101")
		d.Values[form.FieldClient] = "Globex"
		d.Values[form.FieldCost] = "10"
		d.Actions = d.Actions[:1]
		d.Attachments = nil

		asked := int64(0)
		res, err := s.Save(ctx, d, func(n int64) bool { asked = n; return true })
		require.NoError(t, err)
		assert.EqualValues(t, 101, asked)
		assert.Equal(t, models.RevisionUpdated, res.Operation)
		assert.Equal(t, first.Record.ID, res.Record.ID)

		assert.EqualValues(t, 1, countRows(t, db, &models.NonConformance{}, "nro_nc = ?", 101))
		assert.EqualValues(t, 1, countRows(t, db, &models.CorrectiveAction{}, ""))

		rec, err := s.FindByNumber(ctx, 101)
		require.NoError(t, err)
		assert.Equal(t, "Globex", rec.Client)
		assert.Equal(t, 10.0, rec.Cost)
		require.Len(t, rec.Actions, 1)
		assert.Empty(t, rec.Actions[0].Attachments)
	})

	t.Run("should overwrite with zero actions", func(t *testing.T) {
		s, db := newTestStore(t)
		_, err := s.Save(ctx, sampleDraft("7"), never)
		require.NoError(t, err)

		d := sampleDraft("7")
		d.Actions = nil
		_, err = s.Save(ctx, d, always)
		require.NoError(t, err)
		assert.EqualValues(t, 0, countRows(t, db, &models.CorrectiveAction{}, ""))
	})

	t.Run("should write nothing when the overwrite is declined", func(t *testing.T) {
		s, db := newTestStore(t)
		_, err := s.Save(ctx, sampleDraft("101"), never)
		require.NoError(t, err)

		d := sampleDraft("101")
		d.Values[form.FieldClient] = "Globex"
		_, err = s.Save(ctx, d, never)
		assert.ErrorIs(t, err, ErrCancelled)

		_, err = s.Save(ctx, d, nil)
		assert.ErrorIs(t, err, ErrCancelled)

		rec, err := s.FindByNumber(ctx, 101)
		require.NoError(t, err)
		assert.Equal(t, "Acme", rec.Client)
		assert.EqualValues(t, 2, countRows(t, db, &models.CorrectiveAction{}, ""))
		assert.EqualValues(t, 1, countRows(t, db, &models.Revision{}, ""))
	})

	t.Run("should reject invalid NC numbers without writing", func(t *testing.T) {
		for _, number := range []string{"", "   ", "abc", "12.5", "0", "-4"} {
			s, db := newTestStore(t)
			_, err := s.Save(ctx, sampleDraft(number), always)
			assert.ErrorIs(t, err, ErrInvalidInput, number)
			assert.EqualValues(t, 0, countRows(t, db, &models.NonConformance{}, ""))
			assert.EqualValues(t, 0, countRows(t, db, &models.CorrectiveAction{}, ""))
		}
	})

	t.Run("should reject malformed numeric fields without writing", func(t *testing.T) {
		s, db := newTestStore(t)
		d := sampleDraft("101")
		d.Values[form.FieldCost] = "9,5"
		_, err := s.Save(ctx, d, always)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), form.FieldCost)
		assert.EqualValues(t, 0, countRows(t, db, &models.NonConformance{}, ""))
	})

	t.Run("should reject non-finite decimals as input errors", func(t *testing.T) {
		for _, v := range []string{"nan", "inf", "-Inf"} {
			s, db := newTestStore(t)
			d := sampleDraft("101")
			d.Values[form.FieldCost] = v
			_, err := s.Save(ctx, d, always)
			assert.ErrorIs(t, err, ErrInvalidInput, v)
			assert.EqualValues(t, 0, countRows(t, db, &models.NonConformance{}, ""), v)
		}
	})

	t.Run("should leave nothing behind when an action insert fails", func(t *testing.T) {
		s, db := newTestStore(t)
		failActionInserts(t, db)

		_, err := s.Save(ctx, sampleDraft("101"), never)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrDuplicate)
		assert.EqualValues(t, 0, countRows(t, db, &models.NonConformance{}, ""))
		assert.EqualValues(t, 0, countRows(t, db, &models.CorrectiveAction{}, ""))
		assert.EqualValues(t, 0, countRows(t, db, &models.Revision{}, ""))
	})

	t.Run("should keep the previous record when an overwrite fails", func(t *testing.T) {
		s, db := newTestStore(t)
		_, err := s.Save(ctx, sampleDraft("101"), never)
		require.NoError(t, err)
		failActionInserts(t, db)

		d := sampleDraft("101")
		d.Values[form.FieldClient] = "Globex"
		d.Actions = d.Actions[:1]
		_, err = s.Save(ctx, d, always)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrDuplicate)

		rec, err := s.FindByNumber(ctx, 101)
		require.NoError(t, err)
		assert.Equal(t, "Acme", rec.Client)
		require.Len(t, rec.Actions, 2)
		assert.Equal(t, "Replace tool", rec.Actions[0].Task)
		assert.EqualValues(t, 1, countRows(t, db, &models.Revision{}, ""))
	})

	t.Run("should append a revision per save", func(t *testing.T) {
		s, _ := newTestStore(t)
		_, err := s.Save(ctx, sampleDraft("55"), never)
		require.NoError(t, err)
		_, err = s.Save(ctx, sampleDraft("55"), always)
		require.NoError(t, err)

		revs, err := s.Revisions(ctx, 55)
		require.NoError(t, err)
		require.Len(t, revs, 2)
		assert.Equal(t, models.RevisionCreated, revs[0].Operation)
		assert.Equal(t, models.RevisionUpdated, revs[1].Operation)
		assert.Equal(t, 2, revs[1].ActionCount)

		var snap models.NonConformance
		require.NoError(t, json.Unmarshal(revs[1].Snapshot, &snap))
		assert.EqualValues(t, 55, snap.Number)
		assert.Len(t, snap.Actions, 2)
	})
}

func TestLookupFields(t *testing.T) {
	ctx := context.Background()

	t.Run("should round-trip every chain field except the key", func(t *testing.T) {
		s, _ := newTestStore(t)
		d := sampleDraft("101")
		_, err := s.Save(ctx, d, never)
		require.NoError(t, err)

		values, err := s.LookupFields(ctx, 101, form.NCChain)
		require.NoError(t, err)
		assert.NotContains(t, values, form.FieldNumber)
		for _, f := range form.NCChain[1:] {
			assert.Equal(t, d.Values[f.Name], values[f.Name], f.Name)
		}
	})

	t.Run("should report unknown numbers", func(t *testing.T) {
		s, _ := newTestStore(t)
		_, err := s.LookupFields(ctx, 999, form.NCChain)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.FindByNumber(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTable(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, err := s.Save(ctx, sampleDraft("2"), never)
	require.NoError(t, err)
	_, err = s.Save(ctx, sampleDraft("1"), never)
	require.NoError(t, err)

	columns, rows, err := s.Table(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"id", "nro_nc", "fecha", "resultado_matriz", "op", "cant_invol", "cod_producto", "desc_producto",
		"cliente", "cant_scrap", "costo", "cant_recuperada", "observaciones", "falla", "ishikawa",
	}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, "2", FormatValue(rows[0][1]))
	assert.Equal(t, "Acme", rows[0][8])
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		in       interface{}
		expected string
	}{
		{"nil", nil, ""},
		{"string", "Acme", "Acme"},
		{"bytes", []byte("raw"), "raw"},
		{"int64", int64(4411), "4411"},
		{"whole float", float64(120), "120"},
		{"fraction", 99.9, "99.9"},
		{"time", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "2026-01-02 03:04:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.in))
		})
	}
}
