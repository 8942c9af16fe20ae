package cmd

import (
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/docker/go-units"
	"github.com/oneconcern/dirmanifest/pkg/dlogger"
	"github.com/oneconcern/dirmanifest/pkg/manifest"
	"github.com/oneconcern/dirmanifest/pkg/storage"
	"github.com/oneconcern/dirmanifest/pkg/storage/bdgr"
	"github.com/oneconcern/dirmanifest/pkg/storage/cached"
	"github.com/oneconcern/dirmanifest/pkg/storage/compressed"
	"github.com/oneconcern/dirmanifest/pkg/storage/localfs"
	"github.com/oneconcern/dirmanifest/pkg/storage/sthree"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	backendLocalFS = "localfs"
	backendBadger  = "badger"
	backendS3      = "s3"
)

// cliStores is the stack of stores used by a command:
// a manifest store over a cache, over compression, over an instrumented backend.
type cliStores struct {
	manifests *manifest.Store
	cache     *cached.Store
	registry  *prometheus.Registry
	closers   []func() error
	metrics   bool
	l         *zap.Logger
}

func newCLIStores(c *CLIConfig) (*cliStores, error) {
	l, err := dlogger.GetLogger(c.LogLevel)
	if err != nil {
		return nil, err
	}
	s := &cliStores{
		registry: prometheus.NewRegistry(),
		metrics:  c.Metrics,
		l:        l,
	}

	backend, err := s.openBackend(c)
	if err != nil {
		return nil, err
	}
	backend = storage.Instrument(backend,
		storage.WithName(c.Backend),
		storage.WithLogger(l),
		storage.WithMetrics(storage.NewMetrics(s.registry)),
	)

	algo, err := compressed.ParseAlgorithm(c.Compression)
	if err != nil {
		_ = s.close(io.Discard)
		return nil, err
	}
	if algo != compressed.None {
		backend = compressed.New(backend, algo)
	}

	if c.CacheSize != "" {
		size, err := units.RAMInBytes(c.CacheSize)
		if err != nil {
			_ = s.close(io.Discard)
			return nil, err
		}
		if size > 0 {
			s.cache = cached.New(backend, cached.MaxBytes(size), cached.Logger(l))
			backend = s.cache
		}
	}

	s.manifests = manifest.NewStore(backend, manifest.VerifyHash(c.Verify), manifest.Logger(l))
	return s, nil
}

func (s *cliStores) openBackend(c *CLIConfig) (storage.Store, error) {
	switch c.Backend {
	case backendLocalFS:
		if err := os.MkdirAll(c.Path, 0o700); err != nil {
			return nil, err
		}
		return localfs.NewAtomic(afero.NewBasePathFs(afero.NewOsFs(), c.Path))

	case backendBadger:
		db, err := bdgr.Open(c.Path, bdgr.Logger(s.l))
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		return db, nil

	case backendS3:
		awsConfig := aws.NewConfig()
		if c.Region != "" {
			awsConfig = awsConfig.WithRegion(c.Region)
		}
		if c.Endpoint != "" {
			awsConfig = awsConfig.WithEndpoint(c.Endpoint).WithS3ForcePathStyle(true)
		}
		return sthree.New(
			sthree.Bucket(c.Bucket),
			sthree.Prefix(c.Prefix),
			sthree.AWSConfig(awsConfig),
			sthree.Logger(s.l),
		)

	default:
		return nil, status.ErrNotSupported.Wrapf("unknown backend %q", c.Backend)
	}
}

// close the stores, and report metrics when enabled
func (s *cliStores) close(w io.Writer) error {
	if s.metrics {
		if err := s.report(w); err != nil {
			s.l.Warn("cannot report metrics", zap.Error(err))
		}
	}

	var firstErr error
	for _, closer := range s.closers {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = s.l.Sync()
	return firstErr
}
