package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"p9e.in/ncac/pkg/attachments"
	"p9e.in/ncac/pkg/form"
	"p9e.in/ncac/pkg/ncstore"
	"p9e.in/ncac/pkg/session"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", fmt.Errorf("%w: OP must be an integer", ncstore.ErrInvalidInput), http.StatusBadRequest},
		{"unknown field", form.ErrUnknownField, http.StatusBadRequest},
		{"bad attachment name", attachments.ErrInvalidName, http.StatusBadRequest},
		{"duplicate", ncstore.ErrDuplicate, http.StatusConflict},
		{"locked field", form.ErrFieldLocked, http.StatusConflict},
		{"locked action", session.ErrActionLocked, http.StatusConflict},
		{"missing record", ncstore.ErrNotFound, http.StatusNotFound},
		{"missing session", session.ErrSessionNotFound, http.StatusNotFound},
		{"missing action", session.ErrNoSuchAction, http.StatusNotFound},
		{"anything else", errors.New("disk I/O error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := describe(tt.err)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, body.Error)
		})
	}

	t.Run("should use the check-input message for format errors", func(t *testing.T) {
		_, body := describe(ncstore.ErrInvalidInput)
		assert.Equal(t, msgCheckInput, body.Error)
	})

	t.Run("should truncate the technical detail of unexpected errors", func(t *testing.T) {
		_, body := describe(errors.New(strings.Repeat("x", 250)))
		assert.Equal(t, msgGeneric, body.Error)
		assert.Len(t, body.Detail, detailLimit)
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"export_nc.xlsx", "export_nc.xlsx"},
		{"nc report.xlsx", "nc_report.xlsx"},
		{`a/b\c:d.xlsx`, "a_b_c_d.xlsx"},
		{"x;y.txt", "x_y.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFilename(tt.in))
		})
	}
}
