package shell

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/dharsanguruparan/prospectscan/internal/ingest"
	"github.com/dharsanguruparan/prospectscan/internal/view"
)

var errMissingFile = errors.New("missing file part")

// handleUpload streams the browser's multipart form straight into the
// widget. The spreadsheet never touches disk.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ss := s.session(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize+1024)
	mr, err := r.MultipartReader()
	if err != nil {
		http.Error(w, "expecting multipart form", http.StatusBadRequest)
		return
	}
	part, err := nextFilePart(mr)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		return
	}
	defer part.Close()

	err = ss.widget.Drop(r.Context(), ingest.File{Name: part.FileName(), Body: part})
	status := http.StatusOK
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, ingest.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, ingest.ErrClosed):
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	case errors.Is(err, ingest.ErrCancelled):
		// The browser went away; nobody is left to read the page.
		s.logger.Debug("upload request abandoned", zap.String("file", part.FileName()))
		return
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	}
	s.render(w, status, view.PageIngesta, "Ingesta ZoomInfo", s.ingestaPage(ss))
}

// nextFilePart skips form fields until the "file" part. Only the first file
// is used.
func nextFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errMissingFile
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == ingest.FormField {
			return part, nil
		}
		part.Close()
	}
}
