package staging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fanvault-console/pkg/logger"

	"github.com/google/uuid"
)

// MaxFileSize bounds a single staged file.
const MaxFileSize = 512 << 20

var (
	ErrFileTooLarge     = errors.New("file is too large")
	ErrIncompleteDraft  = errors.New("draft is incomplete")
	ErrSubmitInProgress = errors.New("upload already in progress")
)

// StagedFile is a validated file waiting for submission.
type StagedFile struct {
	Kind        MediaKind    `json:"kind"`
	Name        string       `json:"name"`
	ContentType string       `json:"content_type"`
	Size        int64        `json:"size"`
	Source      IntakeSource `json:"source"`
	PreviewID   string       `json:"preview_id"`
	PreviewURL  string       `json:"preview_url"`
	StagedAt    time.Time    `json:"staged_at"`

	data []byte
}

// DraftView is what the upload page renders.
type DraftView struct {
	Title        string                    `json:"title"`
	Genre        string                    `json:"genre"`
	Files        map[MediaKind]*StagedFile `json:"files"`
	Error        string                    `json:"error,omitempty"`
	Confirmation string                    `json:"confirmation,omitempty"`
	Submitting   bool                      `json:"submitting"`
}

// Stager owns the upload draft of one console.
type Stager struct {
	mu           sync.Mutex
	store        PreviewStore
	logger       *logger.Logger
	title        string
	genre        string
	files        map[MediaKind]*StagedFile
	errMsg       string
	confirmation string
	submitting   bool
}

func NewStager(store PreviewStore, log *logger.Logger) *Stager {
	if log == nil {
		log = logger.New()
	}
	return &Stager{
		store:  store,
		logger: log,
		files:  make(map[MediaKind]*StagedFile),
	}
}

// SetDetails updates the text fields of the draft.
func (s *Stager) SetDetails(title, genre string) DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = strings.TrimSpace(title)
	s.genre = strings.TrimSpace(genre)
	s.confirmation = ""
	return s.viewLocked()
}

// Stage validates the file and, when it is allowed, replaces the staged file of
// that kind. A rejected file leaves the current selection untouched and sets the
// draft's inline error.
func (s *Stager) Stage(ctx context.Context, kind MediaKind, source IntakeSource, name string, r io.Reader) (*StagedFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	if len(data) > MaxFileSize {
		return nil, s.reject(fmt.Errorf("%w: %s exceeds %d MB", ErrFileTooLarge, name, MaxFileSize>>20))
	}

	fileType, err := Validate(kind, name, data)
	if err != nil {
		return nil, s.reject(err)
	}

	id := uuid.New().String() + fileType.Extension
	url, err := s.store.Save(ctx, id, fileType.ContentType, data)
	if err != nil {
		return nil, err
	}

	staged := &StagedFile{
		Kind:        kind,
		Name:        filepath.Base(name),
		ContentType: fileType.ContentType,
		Size:        int64(len(data)),
		Source:      source,
		PreviewID:   id,
		PreviewURL:  url,
		StagedAt:    time.Now(),
		data:        data,
	}

	s.mu.Lock()
	previous := s.files[kind]
	s.files[kind] = staged
	// one playable file per draft
	var replaced []*StagedFile
	if previous != nil {
		replaced = append(replaced, previous)
	}
	if kind.IsMedia() {
		for k, f := range s.files {
			if k != kind && k.IsMedia() {
				replaced = append(replaced, f)
				delete(s.files, k)
			}
		}
	}
	s.errMsg = ""
	s.confirmation = ""
	s.mu.Unlock()

	for _, f := range replaced {
		s.release(ctx, f)
	}
	s.logger.Debug("[STAGING] staged %s %s via %s (%d bytes)", kind, staged.Name, source, staged.Size)
	return staged, nil
}

func (s *Stager) reject(err error) error {
	s.mu.Lock()
	s.errMsg = err.Error()
	s.mu.Unlock()
	return err
}

// Unstage drops the staged file of kind.
func (s *Stager) Unstage(ctx context.Context, kind MediaKind) {
	s.mu.Lock()
	f := s.files[kind]
	delete(s.files, kind)
	s.mu.Unlock()
	if f != nil {
		s.release(ctx, f)
	}
}

// Release discards the draft and every preview it holds.
func (s *Stager) Release(ctx context.Context) {
	s.mu.Lock()
	files := s.files
	s.files = make(map[MediaKind]*StagedFile)
	s.title, s.genre, s.errMsg, s.confirmation = "", "", "", ""
	s.mu.Unlock()
	for _, f := range files {
		s.release(ctx, f)
	}
}

func (s *Stager) release(ctx context.Context, f *StagedFile) {
	if err := s.store.Release(ctx, f.PreviewID); err != nil {
		s.logger.Warn("[STAGING] failed to release preview %s: %v", f.PreviewID, err)
	}
}

func (s *Stager) View() DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Stager) viewLocked() DraftView {
	files := make(map[MediaKind]*StagedFile, len(s.files))
	for k, f := range s.files {
		files[k] = f
	}
	return DraftView{
		Title:        s.title,
		Genre:        s.genre,
		Files:        files,
		Error:        s.errMsg,
		Confirmation: s.confirmation,
		Submitting:   s.submitting,
	}
}

// Sender delivers a packaged draft to the platform.
type Sender func(ctx context.Context, body io.Reader, contentType string) (interface{}, error)

// Submit packages the draft into one multipart request and sends it. Success
// resets the draft, failure keeps it populated with an inline error.
func (s *Stager) Submit(ctx context.Context, send Sender) (interface{}, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	body, contentType, err := s.packageLocked()
	if err != nil {
		s.errMsg = err.Error()
		s.mu.Unlock()
		return nil, err
	}
	s.submitting = true
	s.errMsg = ""
	s.mu.Unlock()

	result, err := send(ctx, body, contentType)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.errMsg = "Upload failed"
		s.mu.Unlock()
		return nil, err
	}
	files := s.files
	s.files = make(map[MediaKind]*StagedFile)
	s.title, s.genre = "", ""
	s.confirmation = "Content uploaded and sent for review"
	s.mu.Unlock()

	for _, f := range files {
		s.release(ctx, f)
	}
	s.logger.Info("[STAGING] draft submitted")
	return result, nil
}

// FailWith replaces the inline error of the draft, e.g. with the server's message.
func (s *Stager) FailWith(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Stager) mediaLocked() *StagedFile {
	if f := s.files[KindAudio]; f != nil {
		return f
	}
	return s.files[KindVideo]
}

func (s *Stager) packageLocked() (*bytes.Buffer, string, error) {
	media := s.mediaLocked()
	thumb := s.files[KindThumbnail]
	switch {
	case s.title == "":
		return nil, "", fmt.Errorf("%w: title is required", ErrIncompleteDraft)
	case media == nil:
		return nil, "", fmt.Errorf("%w: an audio or video file is required", ErrIncompleteDraft)
	case thumb == nil:
		return nil, "", fmt.Errorf("%w: a thumbnail is required", ErrIncompleteDraft)
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fields := [][2]string{
		{"title", s.title},
		{"genre", s.genre},
		{"type", media.Kind.ContentType()},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := writeFile(w, "thumbnail", thumb); err != nil {
		return nil, "", err
	}
	if err := writeFile(w, "file", media); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, field string, f *StagedFile) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
	h.Set("Content-Type", f.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(f.data)
	return err
}
