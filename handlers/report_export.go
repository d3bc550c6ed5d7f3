package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"p9e.in/ncac/pkg/export"
)

// ExportResponse reports a workbook written on the server
type ExportResponse struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// WriteExport dumps the nc table to the configured workbook path
func (h *NCHandler) WriteExport(w http.ResponseWriter, r *http.Request) {
	columns, rows, err := h.store.Table(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := export.WriteFile(h.exportPath, columns, rows); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ExportResponse{Path: h.exportPath, Rows: len(rows)})
}

// DownloadExport streams the same workbook without touching the disk
func (h *NCHandler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	columns, rows, err := h.store.Table(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	buffer, err := export.Bytes(columns, rows)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := sanitizeFilename(filepath.Base(h.exportPath))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.Write(buffer.Bytes())
}

func sanitizeFilename(filename string) string {
	replacements := map[rune]rune{
		'/':  '_',
		'\\': '_',
		':':  '_',
		'*':  '_',
		'?':  '_',
		'"':  '_',
		'<':  '_',
		'>':  '_',
		'|':  '_',
		' ':  '_',
		';':  '_',
	}

	result := []rune{}
	for _, char := range filename {
		if replacement, exists := replacements[char]; exists {
			result = append(result, replacement)
		} else {
			result = append(result, char)
		}
	}
	return string(result)
}
