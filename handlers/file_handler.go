package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"p9e.in/ncac/pkg/ncstore"
	"p9e.in/ncac/pkg/session"
)

const maxUploadSize = 50 << 20

// AttachFiles copies the multipart "files" of a request into attachment
// storage. Each file is reported on its own; one failure does not stop the
// rest.
func (h *NCHandler) AttachFiles(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, r, fmt.Errorf("%w: bad multipart form: %v", ncstore.ErrInvalidInput, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, r, fmt.Errorf("%w: missing files field", ncstore.ErrInvalidInput))
		return
	}

	uploads := make([]session.Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, session.Upload{Name: fh.Filename, Reader: &lazyPart{header: fh}})
	}
	defer func() {
		for _, u := range uploads {
			u.Reader.(*lazyPart).Close()
		}
	}()

	results, err := s.Attach(r.Context(), uploads)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("attachment upload finished", "session", s.ID, "files", len(results))
	writeJSON(w, http.StatusOK, results)
}

// lazyPart opens a multipart file on first read, so an open failure shows up
// as that file's own copy error.
type lazyPart struct {
	header *multipart.FileHeader
	file   multipart.File
}

func (p *lazyPart) Read(b []byte) (int, error) {
	if p.file == nil {
		f, err := p.header.Open()
		if err != nil {
			return 0, err
		}
		p.file = f
	}
	return p.file.Read(b)
}

func (p *lazyPart) Close() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

// DownloadAttachment serves a stored attachment by its stored name
func (h *NCHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	rc, err := h.files.Open(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", sanitizeFilename(name)))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to stream attachment", "name", name, "err", err)
	}
}
