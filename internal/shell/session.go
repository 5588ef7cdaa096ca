package shell

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/prospectscan/internal/ingest"
	"github.com/dharsanguruparan/prospectscan/internal/model"
)

const (
	sessionCookie = "prospectscan_session"
	sessionIdle   = 12 * time.Hour
)

// session is one browser's upload widget and the snapshot it produced.
// Browsers never see each other's uploads.
type session struct {
	id     string
	widget *ingest.Widget

	mu       sync.RWMutex
	snapshot string
	seen     time.Time
}

// Snapshot returns the id of the browser's last successful upload, or "".
func (ss *session) Snapshot() string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.snapshot
}

// handleUploadSuccess receives the whole upload result and keeps only the id.
func (ss *session) handleUploadSuccess(result model.UploadResult) {
	ss.mu.Lock()
	ss.snapshot = result.SnapshotID
	ss.mu.Unlock()
}

func (ss *session) touch(now time.Time) {
	ss.mu.Lock()
	ss.seen = now
	ss.mu.Unlock()
}

func (ss *session) idleSince(now time.Time) time.Duration {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return now.Sub(ss.seen)
}

// lookup returns the caller's session, or nil when the browser has none.
func (s *Server) lookup(r *http.Request) *session {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	s.mu.RLock()
	ss := s.sessions[c.Value]
	s.mu.RUnlock()
	if ss != nil {
		ss.touch(time.Now())
	}
	return ss
}

// session returns the caller's session, starting one and setting the cookie
// when the browser has none.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	if ss := s.lookup(r); ss != nil {
		return ss
	}
	now := time.Now()
	ss := &session{id: uuid.NewString(), seen: now}
	ss.widget = ingest.NewWidget(s.uploader,
		ingest.OnSuccess(ss.handleUploadSuccess),
		ingest.WithWidgetLogger(s.logger.Named("widget").With(zap.String("session", ss.id))),
		ingest.WithMetrics(s.metrics),
	)

	s.mu.Lock()
	if s.closed {
		ss.widget.Close()
	}
	s.expireLocked(now)
	s.sessions[ss.id] = ss
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    ss.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session started", zap.String("session", ss.id))
	return ss
}

// expireLocked drops sessions idle for longer than sessionIdle. A session
// with an upload in flight is kept.
func (s *Server) expireLocked(now time.Time) {
	for id, ss := range s.sessions {
		if ss.idleSince(now) < sessionIdle || ss.widget.State().Phase == ingest.PhaseUploading {
			continue
		}
		ss.widget.Close()
		delete(s.sessions, id)
	}
}

// Close aborts every upload in flight. Later drops, in old or new sessions,
// get ErrClosed.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, ss := range s.sessions {
		ss.widget.Close()
	}
}
