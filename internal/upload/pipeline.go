package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"job-portal/internal/config"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	FolderUserPhotos   = "user_photos"
	FolderResumes      = "resumes"
	FolderCompanyLogos = "company_logos"

	DefaultMaxBytes = 5 << 20
	DefaultTimeout  = 30 * time.Second
)

var (
	ErrNoFile          = errors.New("no file provided")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrUpstream        = errors.New("object storage unavailable")
)

var (
	allowedExt  = map[string]struct{}{".jpeg": {}, ".jpg": {}, ".png": {}, ".pdf": {}}
	allowedMIME = []string{"image/jpeg", "image/png", "application/pdf"}
)

type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Asset struct {
	URL          string
	Key          string
	OriginalName string
}

type Pipeline struct {
	store    ObjectStore
	tempDir  string
	maxBytes int64
	timeout  time.Duration
	logger   *log.Logger
}

func NewPipeline(store ObjectStore, cfg config.UploadConfig, logger *log.Logger) *Pipeline {
	p := &Pipeline{
		store:    store,
		tempDir:  cfg.TempDir,
		maxBytes: cfg.MaxBytes,
		timeout:  cfg.Timeout,
		logger:   logger,
	}
	if p.tempDir == "" {
		p.tempDir = os.TempDir()
	}
	if p.maxBytes <= 0 {
		p.maxBytes = DefaultMaxBytes
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	return p
}

// Upload validates fh, stages it in the temp directory and pushes it to the
// object store under folder. The staged copy is removed before returning.
func (p *Pipeline) Upload(ctx context.Context, fh *multipart.FileHeader, folder string) (Asset, error) {
	if fh == nil {
		return Asset{}, ErrNoFile
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExt[ext]; !ok {
		return Asset{}, ErrUnsupportedType
	}
	if !isAllowedMIME(declaredType(fh)) {
		return Asset{}, ErrUnsupportedType
	}
	if fh.Size > p.maxBytes {
		return Asset{}, ErrTooLarge
	}

	name := uuid.NewString() + ext
	tmpPath, err := p.stage(fh, name)
	if tmpPath != "" {
		defer p.cleanup(tmpPath)
	}
	if err != nil {
		return Asset{}, err
	}

	mt, err := mimetype.DetectFile(tmpPath)
	if err != nil {
		return Asset{}, fmt.Errorf("detect content type: %w", err)
	}
	sniffed := ""
	for _, m := range allowedMIME {
		if mt.Is(m) {
			sniffed = m
			break
		}
	}
	if sniffed == "" {
		return Asset{}, ErrUnsupportedType
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return Asset{}, err
	}
	defer f.Close()

	uctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	key := strings.Trim(folder, "/") + "/" + name
	url, err := p.store.Put(uctx, key, f, sniffed)
	if err != nil {
		if p.logger != nil {
			p.logger.Printf("[Upload] put failed | key=%s err=%v", key, err)
		}
		return Asset{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return Asset{URL: url, Key: key, OriginalName: fh.Filename}, nil
}

// Persist uploads fh and then runs persist. When persist fails the remote
// object is deleted and the persist error is returned.
func (p *Pipeline) Persist(ctx context.Context, fh *multipart.FileHeader, folder string, persist func(Asset) error) (Asset, error) {
	asset, err := p.Upload(ctx, fh, folder)
	if err != nil {
		return Asset{}, err
	}
	if err := persist(asset); err != nil {
		p.Discard(ctx, asset)
		return Asset{}, err
	}
	return asset, nil
}

// Discard removes an uploaded object. Failures are logged only.
func (p *Pipeline) Discard(ctx context.Context, a Asset) {
	if a.Key == "" {
		return
	}
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := p.store.Delete(dctx, a.Key); err != nil {
		if p.logger != nil {
			p.logger.Printf("[Upload] compensating delete failed | key=%s err=%v", a.Key, err)
		}
		return
	}
	if p.logger != nil {
		p.logger.Printf("[Upload] compensating delete | key=%s", a.Key)
	}
}

func (p *Pipeline) stage(fh *multipart.FileHeader, name string) (string, error) {
	if err := os.MkdirAll(p.tempDir, 0o755); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(p.tempDir, name)
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", err
	}

	n, err := io.Copy(dst, io.LimitReader(src, p.maxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return path, err
	}
	if n > p.maxBytes {
		return path, ErrTooLarge
	}
	return path, nil
}

func (p *Pipeline) cleanup(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) && p.logger != nil {
		p.logger.Printf("[Upload] temp cleanup failed | path=%s err=%v", path, err)
	}
}

func declaredType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

func isAllowedMIME(m string) bool {
	for _, a := range allowedMIME {
		if m == a {
			return true
		}
	}
	return false
}
