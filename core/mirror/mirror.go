package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"vonatinfo/core/reconcile"
	"vonatinfo/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	// FullFile holds the full roster document.
	FullFile = "timetables.json"
	// LightFile holds the light roster document.
	LightFile = "trains.json"
)

// Upload configures the optional object storage copy.
type Upload struct {
	Client storage.Client
	Bucket string
	Prefix string
}

// Sink mirrors every published snapshot.
type Sink struct {
	dir    string
	upload *Upload
	logger *zap.Logger
}

// NewSink creates a Sink writing into dir. upload may be nil.
func NewSink(dir string, upload *Upload, logger *zap.Logger) *Sink {
	return &Sink{
		dir:    dir,
		upload: upload,
		logger: logger.With(zap.String("component", "mirror")),
	}
}

// Name implements reconcile.Sink.
func (s *Sink) Name() string { return "mirror" }

// OnCycle implements reconcile.Sink.
func (s *Sink) OnCycle(ctx context.Context, c reconcile.Cycle) error {
	if c.Snapshot == nil {
		return nil
	}
	return s.Write(ctx, c.Snapshot)
}

// Write renders both documents of snap and stores them.
func (s *Sink) Write(ctx context.Context, snap *reconcile.Snapshot) error {
	full, err := json.Marshal(snap.FullDocument())
	if err != nil {
		return fmt.Errorf("encode %s: %w", FullFile, err)
	}
	light, err := json.Marshal(snap.LightDocument())
	if err != nil {
		return fmt.Errorf("encode %s: %w", LightFile, err)
	}

	docs := []struct {
		name string
		data []byte
	}{{FullFile, full}, {LightFile, light}}

	var errs []error
	for _, d := range docs {
		if s.dir != "" {
			if err := WriteFileAtomic(filepath.Join(s.dir, d.name), d.data); err != nil {
				errs = append(errs, err)
			}
		}
		if s.upload != nil {
			if err := s.put(ctx, d.name, d.data); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) == 0 {
		s.logger.Debug("Mirrored roster", zap.Uint64("seq", snap.Seq()), zap.Int("trips", snap.Len()))
	}
	return errors.Join(errs...)
}

func (s *Sink) put(ctx context.Context, name string, data []byte) error {
	key := s.upload.Prefix + name
	_, err := s.upload.Client.PutObject(ctx, s.upload.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json", CacheControl: "no-cache"})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partial document.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
