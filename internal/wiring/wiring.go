// Package wiring assembles a usecase.Service from a loaded config.Config,
// shared by cmd/schemaforge-api and cmd/schemaforge-cli so both binaries
// provision the same repository backend, logger, and metrics service the
// same way.
package wiring

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/niiniyare/schemaforge/pkg/cache"
	"github.com/niiniyare/schemaforge/pkg/config"
	"github.com/niiniyare/schemaforge/pkg/encryption"
	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/metrics"
	"github.com/niiniyare/schemaforge/pkg/schemakit/bootstrap"
	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/usecase"
	"github.com/niiniyare/schemaforge/pkg/tracing"
)

// App bundles the service every command runs against, plus the
// underlying logger/metrics/tracer so main() can flush them on shutdown.
type App struct {
	Service *usecase.Service
	Logger  logger.Logger
	Metrics metrics.MetricsService
	Tracer  tracing.Service
}

// Build provisions the repository backend cfg.Storage selects, the
// logger cfg.Logger selects, and the metrics provider cfg.Metrics
// selects, then runs the startup sanitization pass before returning an
// assembled Service.
func Build(cfg *config.Config) (*App, error) {
	loggerCfg := cfg.Logger.ToLoggerConfig(&cfg.App)
	lg, err := (&logger.LoggerFactory{}).NewLogger(logger.Config{
		Type:        logger.LoggerType(loggerCfg.Type),
		Level:       logger.LogLevel(loggerCfg.Level),
		Output:      loggerCfg.Output,
		Format:      loggerCfg.Format,
		Development: loggerCfg.Development,
		ServiceName: loggerCfg.ServiceName,
		Version:     loggerCfg.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("wiring: build logger: %w", err)
	}

	ms, err := metrics.NewMetricsService(metrics.MetricsConfig{
		Provider:  cfg.Metrics.Provider,
		Namespace: cfg.Metrics.Namespace,
		Subsystem: cfg.Metrics.Subsystem,
		Enabled:   cfg.Metrics.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("wiring: build metrics service: %w", err)
	}

	repos, err := provisionRepositories(cfg)
	if err != nil {
		return nil, fmt.Errorf("wiring: provision repositories: %w", err)
	}

	tracer, err := buildTracer(cfg)
	if err != nil {
		return nil, fmt.Errorf("wiring: build tracer: %w", err)
	}

	formula.SetProgramCacheEnabled(cfg.Features.EnableFormulaCache)

	svc := usecase.New(repos.Entities, repos.Relationships, lg, *ms)
	svc.Tracer = tracer

	if cfg.Features.EnableGovernanceCache {
		governanceCache, err := cache.NewRedisClient(cache.DefaultRedisConfig(&cfg.Redis))
		if err != nil {
			return nil, fmt.Errorf("wiring: build governance cache: %w", err)
		}
		svc.GovernanceCache = governanceCache
	}

	if cfg.Features.EnableExportSealing {
		sealer, err := buildSealer(cfg)
		if err != nil {
			return nil, fmt.Errorf("wiring: build export sealer: %w", err)
		}
		svc.Encryption = sealer
		svc.EncryptionKeyID = encryption.DefaultKeyID
	}

	ctx := context.Background()
	report, err := bootstrap.Sanitize(ctx, repos.Entities, lg, *ms, tracer)
	if err != nil {
		return nil, fmt.Errorf("wiring: sanitize: %w", err)
	}
	if report.FieldsDeleted > 0 || report.ConstraintsDeleted > 0 {
		lg.Warn("startup sanitization removed invalid rows", logger.Fields{
			"fields_deleted":      report.FieldsDeleted,
			"constraints_deleted": report.ConstraintsDeleted,
		})
	}

	return &App{Service: svc, Logger: lg, Metrics: *ms, Tracer: tracer}, nil
}

// buildTracer constructs the tracing.Service cfg.Features.EnableTracing
// selects. Disabled (the default) yields a no-op tracer so every span
// call site stays cheap and unconditional.
func buildTracer(cfg *config.Config) (tracing.Service, error) {
	tcfg := tracing.DefaultConfig()
	tcfg.Enabled = cfg.Features.EnableTracing
	tcfg.ServiceName = cfg.App.Name
	tcfg.ServiceVersion = cfg.App.Version
	tcfg.Environment = cfg.App.Environment

	if !tcfg.Enabled {
		return tracing.NewNoOpService(), nil
	}
	return tracing.NewService(tcfg)
}

// buildSealer assembles the AES-256-GCM export sealer from
// cfg.Storage.SealingMasterKey, provisioning the default key in an
// in-memory repository derived from the master key.
func buildSealer(cfg *config.Config) (encryption.EncryptionService, error) {
	zlog, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	em := encryption.NewSimpleMetrics()
	keyRepo, err := encryption.NewSecureInMemoryKeyRepository(
		[]byte(cfg.Storage.SealingMasterKey),
		encryption.NewArgon2KeyDerivationService(),
		zlog, em,
	)
	if err != nil {
		return nil, err
	}
	return encryption.NewEncryptionService(keyRepo, sealerMaxDocumentSize, zlog, em), nil
}

// sealerMaxDocumentSize bounds a sealed export document at 64 MiB.
const sealerMaxDocumentSize = 64 << 20

func provisionRepositories(cfg *config.Config) (*bootstrap.Repositories, error) {
	bcfg := bootstrap.Config{FileBaseDir: cfg.Storage.FilePath}

	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		bcfg.Backend = bootstrap.BackendMemory
	case config.StorageBackendFile:
		bcfg.Backend = bootstrap.BackendFile
	case config.StorageBackendS3:
		bcfg.Backend = bootstrap.BackendS3
		client, err := newS3Client(cfg.Storage.S3Region, cfg.Storage.S3Endpoint)
		if err != nil {
			return nil, err
		}
		bcfg.S3Client = client
		bcfg.S3Bucket = cfg.Storage.S3Bucket
		bcfg.S3Prefix = cfg.Storage.S3KeyPrefix
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return bootstrap.Provision(bcfg)
}

func newS3Client(region, endpoint string) (*s3.Client, error) {
	ctx := context.Background()
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
