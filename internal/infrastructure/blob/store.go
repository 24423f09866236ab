// Package blob stores uploaded resumes and hands back opaque handles.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"jobboard/internal/domain"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const DefaultMaxBytes int64 = 5 << 20

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	// docx sniffs as a zip archive.
	"application/zip": {},
}

// Upload is one incoming resume file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Store struct {
	fs       afero.Fs
	maxBytes int64
	now      func() time.Time
}

// NewLocal stores blobs under dir on the local disk, creating it if needed.
func NewLocal(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir), maxBytes), nil
}

func New(fs afero.Fs, maxBytes int64) *Store {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{fs: fs, maxBytes: maxBytes, now: time.Now}
}

// Save validates u and writes it. The returned handle is what the
// application ledger records.
func (s *Store) Save(_ context.Context, u Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(u.Filename))

	head := make([]byte, 512)
	n, err := io.ReadFull(u.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "read resume")
	}
	head = head[:n]

	if verr := s.validate(ext, u.ContentType, u.Size, head); verr != nil {
		return "", verr
	}

	handle := fmt.Sprintf("resume-%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
	f, err := s.fs.OpenFile(handle, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "create resume blob")
	}

	// Size is client-declared; the limited copy enforces the real bound.
	written, err := io.Copy(f, io.LimitReader(io.MultiReader(bytes.NewReader(head), u.Body), s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(handle)
		return "", errors.Wrap(err, "write resume blob")
	}
	if written > s.maxBytes {
		_ = s.fs.Remove(handle)
		return "", tooLarge(s.maxBytes)
	}
	return handle, nil
}

// Delete removes a stored blob. Missing blobs are not an error.
func (s *Store) Delete(_ context.Context, handle string) error {
	handle = path.Base(handle)
	if handle == "." || handle == "/" {
		return nil
	}
	if err := s.fs.Remove(handle); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "delete resume blob %s", handle)
	}
	return nil
}

func (s *Store) validate(ext, contentType string, size int64, head []byte) error {
	if _, ok := allowedExtensions[ext]; !ok {
		return notAllowed()
	}
	if !s.allowedType(contentType, head) {
		return notAllowed()
	}
	if size > s.maxBytes {
		return tooLarge(s.maxBytes)
	}
	if len(head) == 0 {
		return domain.FieldError("resume", "Resume file is empty")
	}
	return nil
}

// allowedType accepts the declared type when it is specific, and otherwise
// falls back to sniffing the first bytes.
func (s *Store) allowedType(declared string, head []byte) bool {
	declared = strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
	if declared != "" && declared != "application/octet-stream" {
		_, ok := allowedContentTypes[declared]
		return ok
	}
	if bytes.HasPrefix(head, oleMagic) {
		return true
	}
	_, ok := allowedContentTypes[http.DetectContentType(head)]
	return ok
}

// oleMagic opens every legacy .doc compound file.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

func notAllowed() error {
	return domain.FieldError("resume", "Only PDF, DOC, and DOCX files are allowed")
}

func tooLarge(limit int64) error {
	return domain.FieldError("resume", fmt.Sprintf("File size too large. Maximum size is %dMB", limit>>20))
}
