package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/prospectscan/internal/logger"
	"github.com/dharsanguruparan/prospectscan/internal/model"
)

// Phase is the lifecycle position of a Widget.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseUploading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseUploading:
		return "uploading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// ErrorKind separates the two error classes shown to the user.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindTransport
)

// State is a snapshot of the widget. Result is a private copy. A rejected
// file keeps the previous Result; only a new upload clears it.
type State struct {
	Phase  Phase
	Result *model.UploadResult
	Err    error
	Kind   ErrorKind
}

// Message is the inline error text, empty when there is no error.
func (s State) Message() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Uploader performs the network part of a drop. *Client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, file File) (*model.UploadResult, error)
}

// Widget accepts one spreadsheet at a time and walks it through
// idle -> uploading -> success|error. While uploading, further drops are
// refused with ErrBusy.
type Widget struct {
	uploader  Uploader
	onSuccess func(model.UploadResult)
	listeners []func(State)
	logger    *zap.Logger
	metrics   *Metrics

	// lifetime is cancelled by Close and aborts any in-flight upload.
	lifetime context.Context
	stop     context.CancelFunc

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// WidgetOption customizes a Widget.
type WidgetOption func(*Widget)

// OnSuccess registers the callback invoked with the full upload payload.
func OnSuccess(fn func(model.UploadResult)) WidgetOption {
	return func(w *Widget) { w.onSuccess = fn }
}

// WithListener registers a callback invoked after every state transition.
func WithListener(fn func(State)) WidgetOption {
	return func(w *Widget) { w.listeners = append(w.listeners, fn) }
}

// WithWidgetLogger attaches a logger.
func WithWidgetLogger(l *zap.Logger) WidgetOption {
	return func(w *Widget) { w.logger = l }
}

// WithMetrics attaches upload metrics.
func WithMetrics(m *Metrics) WidgetOption {
	return func(w *Widget) { w.metrics = m }
}

// NewWidget builds an idle widget around an uploader.
func NewWidget(up Uploader, opts ...WidgetOption) *Widget {
	lifetime, stop := context.WithCancel(context.Background())
	w := &Widget{uploader: up, lifetime: lifetime, stop: stop}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.OrNop(w.logger)
	return w
}

// State returns a copy of the current state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyState(w.state)
}

// Drop handles files dropped on the widget. Only the first and only file is
// accepted; an empty drop is ignored. The returned error mirrors the state's
// error, except ErrBusy and ErrClosed which leave the state untouched.
func (w *Widget) Drop(ctx context.Context, files ...File) error {
	if len(files) == 0 {
		return nil
	}

	w.mu.Lock()
	if w.lifetime.Err() != nil {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.state.Phase == PhaseUploading {
		w.mu.Unlock()
		w.metrics.observe(OutcomeBusy, 0)
		return ErrBusy
	}
	var verr error
	if len(files) > 1 {
		verr = &ValidationError{Name: files[1].Name, Message: tooManyFilesMessage}
	} else {
		verr = ValidateFileName(files[0].Name)
	}
	if verr != nil {
		st := w.setLocked(State{Phase: PhaseError, Result: w.state.Result, Err: verr, Kind: KindValidation})
		w.mu.Unlock()
		w.metrics.observe(OutcomeValidation, 0)
		w.logger.Info("upload rejected", zap.String("file", files[0].Name), zap.Error(verr))
		w.notify(st)
		return verr
	}

	uploadCtx, cancel := context.WithCancel(ctx)
	detach := context.AfterFunc(w.lifetime, cancel)
	w.cancel = cancel
	st := w.setLocked(State{Phase: PhaseUploading})
	w.mu.Unlock()
	w.notify(st)

	file := files[0]
	log := w.logger.With(zap.String("upload_id", uuid.NewString()), zap.String("file", file.Name))
	log.Info("upload started")
	start := time.Now()
	result, err := w.uploader.Upload(uploadCtx, file)
	elapsed := time.Since(start)
	detach()
	cancel()

	w.mu.Lock()
	w.cancel = nil
	switch {
	case err == nil:
		clone := result.Clone()
		st = w.setLocked(State{Phase: PhaseSuccess, Result: &clone})
	case errors.Is(err, context.Canceled):
		st = w.setLocked(State{Phase: PhaseIdle})
	default:
		kind := KindTransport
		var ve *ValidationError
		if errors.As(err, &ve) {
			kind = KindValidation
		}
		st = w.setLocked(State{Phase: PhaseError, Err: err, Kind: kind})
	}
	w.mu.Unlock()
	w.notify(st)

	switch {
	case err == nil:
		w.metrics.observe(OutcomeSuccess, elapsed)
		log.Info("upload finished",
			zap.String("snapshot_id", result.SnapshotID),
			zap.Int("empresas", result.EmpresasCount),
			zap.Duration("elapsed", elapsed),
		)
		if w.onSuccess != nil {
			w.onSuccess(result.Clone())
		}
		return nil
	case errors.Is(err, context.Canceled):
		w.metrics.observe(OutcomeCancelled, elapsed)
		log.Info("upload cancelled", zap.Duration("elapsed", elapsed))
		return err
	default:
		w.metrics.observe(OutcomeTransport, elapsed)
		log.Warn("upload failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return err
	}
}

// Reset clears a finished result or error, as when the widget is unmounted.
// It does nothing while uploading.
func (w *Widget) Reset() {
	w.mu.Lock()
	if w.state.Phase == PhaseUploading || w.state.Phase == PhaseIdle {
		w.mu.Unlock()
		return
	}
	st := w.setLocked(State{Phase: PhaseIdle})
	w.mu.Unlock()
	w.notify(st)
}

// Cancel aborts the in-flight upload, if any.
func (w *Widget) Cancel() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Close aborts the in-flight upload and refuses further drops.
func (w *Widget) Close() {
	w.stop()
}

func (w *Widget) setLocked(st State) State {
	w.state = st
	return copyState(st)
}

func (w *Widget) notify(st State) {
	for _, fn := range w.listeners {
		fn(st)
	}
}

func copyState(st State) State {
	if st.Result != nil {
		clone := st.Result.Clone()
		st.Result = &clone
	}
	return st
}
