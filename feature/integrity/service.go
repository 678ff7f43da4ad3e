package integrity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vonatinfo/core/archive"
	"vonatinfo/core/mirror"
	"vonatinfo/core/storage"
	"vonatinfo/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDisabled is returned when the checked component is not configured.
var ErrDisabled = errors.New("component is not configured")

// Options configures the components to check. Zero values disable a check.
type Options struct {
	// MirrorDir is the local mirror directory.
	MirrorDir string
	// MaxAge is how old a mirror file may get before it is stale.
	MaxAge time.Duration
	// Storage is the bucket receiving mirror uploads.
	Storage *mirror.Upload
	// Region is used when the bucket has to be created.
	Region string
	// DB holds the trip archive.
	DB *gorm.DB
}

// Report collects the results of every check.
type Report struct {
	Healthy bool                  `json:"healthy"`
	Mirror  *checks.MirrorReport  `json:"mirror"`
	Storage *checks.StorageReport `json:"storage"`
	Archive *checks.SchemaReport  `json:"archive"`
	Errors  []string              `json:"errors"`
}

// Service handles integrity checks.
type Service struct {
	opts   Options
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(opts Options, logger *zap.Logger) *Service {
	return &Service{opts: opts, now: time.Now, logger: logger}
}

func mirrorFiles() []string { return []string{mirror.FullFile, mirror.LightFile} }

// CheckMirror inspects the local mirror files.
func (s *Service) CheckMirror() (*checks.MirrorReport, error) {
	if s.opts.MirrorDir == "" {
		return nil, ErrDisabled
	}
	r := checks.CheckMirror(s.opts.MirrorDir, mirrorFiles(), s.opts.MaxAge, s.now())
	return &r, nil
}

// CheckStorage inspects the mirror bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.opts.Storage == nil {
		return nil, ErrDisabled
	}
	up := s.opts.Storage
	return checks.CheckStorage(ctx, up.Client, up.Bucket, up.Prefix, mirrorFiles())
}

// FixStorage creates the mirror bucket if it is missing.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.opts.Storage == nil {
		return ErrDisabled
	}
	s.logger.Info("Ensuring mirror bucket", zap.String("bucket", s.opts.Storage.Bucket))
	return storage.EnsureBucket(ctx, s.opts.Storage.Client, s.opts.Storage.Bucket, s.opts.Region, 10*time.Second)
}

// CheckArchive compares the trip archive table with its model.
func (s *Service) CheckArchive() (*checks.SchemaReport, error) {
	if s.opts.DB == nil {
		return nil, ErrDisabled
	}
	return checks.CheckSchema(s.opts.DB, archive.TripArchive{})
}

// FixArchive migrates the trip archive table.
func (s *Service) FixArchive() error {
	if s.opts.DB == nil {
		return ErrDisabled
	}
	s.logger.Info("Migrating trip archive")
	return archive.Migrate(s.opts.DB)
}

// Run executes every configured check.
func (s *Service) Run(ctx context.Context) *Report {
	report := &Report{Healthy: true, Errors: []string{}}
	fail := func(name string, err error) {
		if errors.Is(err, ErrDisabled) {
			return
		}
		report.Healthy = false
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
		s.logger.Warn("Integrity check failed", zap.String("check", name), zap.Error(err))
	}

	if r, err := s.CheckMirror(); err != nil {
		fail("mirror", err)
	} else {
		report.Mirror = r
		report.Healthy = report.Healthy && r.Status == checks.StatusOK
	}

	if r, err := s.CheckStorage(ctx); err != nil {
		fail("storage", err)
	} else {
		report.Storage = r
		report.Healthy = report.Healthy && r.Status == checks.StatusOK
	}

	if r, err := s.CheckArchive(); err != nil {
		fail("archive", err)
	} else {
		report.Archive = r
		report.Healthy = report.Healthy && r.Status == checks.StatusOK
	}

	return report
}
