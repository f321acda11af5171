// Package bootstrap provisions a repository backend from configuration
// and runs the startup sanitization pass: rows
// that violate an invariant outside of the normal mutation path (most
// often, data carried over from an external import) are deleted rather
// than allowed to corrupt the in-process view, and every deletion is
// logged and counted rather than silently dropped.
package bootstrap

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/metrics"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository/filestore"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository/memstore"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository/s3store"
	"github.com/niiniyare/schemaforge/pkg/schemakit/valuemodel"
	"github.com/niiniyare/schemaforge/pkg/tracing"
)

// Backend is the closed set of repository backends names.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendS3     Backend = "s3"
)

// Config selects and parameterizes a repository backend. Exactly the
// fields relevant to Backend are read — e.g. S3Bucket is ignored unless
// Backend is BackendS3.
type Config struct {
	Backend Backend

	FileBaseDir string

	S3Client s3store.Client
	S3Bucket string
	S3Prefix string
}

// Repositories bundles the two repository interfaces a Service needs,
// both backed by the same provisioned store.
type Repositories struct {
	Entities      repository.EntityRepository
	Relationships repository.RelationshipRepository
}

// Provision constructs the repository backend cfg selects. It is
// idempotent for BackendFile (MkdirAll) and BackendS3 (no bucket
// creation — the bucket must already exist); BackendMemory always starts
// empty — a memstore-backed repository never survives process exit.
func Provision(cfg Config) (*Repositories, error) {
	switch cfg.Backend {
	case BackendMemory:
		s := memstore.New()
		return &Repositories{Entities: s, Relationships: s.Relationships()}, nil
	case BackendFile:
		s, err := filestore.New(cfg.FileBaseDir)
		if err != nil {
			return nil, err
		}
		return &Repositories{Entities: s, Relationships: s.Relationships()}, nil
	case BackendS3:
		s := s3store.New(cfg.S3Client, cfg.S3Bucket, cfg.S3Prefix)
		return &Repositories{Entities: s, Relationships: s.Relationships()}, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown backend %q", cfg.Backend)
	}
}

// Report summarizes a sanitization pass.
type Report struct {
	FieldsDeleted      int
	ConstraintsDeleted int
}

// Sanitize scans every entity for the two row-level violations that count
// as corrupt — a LOOKUP field with an empty lookup_entity_id, and a
// constraint attached to a CALCULATED field — and deletes them in place,
// persisting the corrected entity. Each deletion is logged with the
// offending entity_id/field_id/violation and counted via
// schemakit_sanitization_deleted_total. tracer may be nil, in which case
// the pass runs untraced.
func Sanitize(ctx context.Context, entities repository.EntityRepository, log logger.Logger, m metrics.MetricsService, tracer tracing.Service) (Report, error) {
	var report Report

	if tracer == nil {
		tracer = tracing.NewNoOpService()
	}
	ctx, span := tracer.StartSpan(ctx, "schemakit.sanitize")
	defer span.End()

	all, err := entities.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		return report, err
	}

	for _, e := range all {
		dirty := false

		for _, f := range e.Fields() {
			if f.Type == valuemodel.FieldTypeLookup && f.LookupEntityID == "" {
				logSanitized(log, m, string(e.ID), string(f.ID), "LOOKUP_MISSING_TARGET")
				if err := e.DeleteField(f.ID); err == nil {
					report.FieldsDeleted++
					dirty = true
				}
				continue
			}
			if f.Type == valuemodel.FieldTypeCalculated && len(f.Constraints) > 0 {
				logSanitized(log, m, string(e.ID), string(f.ID), "CONSTRAINT_ON_CALCULATED")
				f.Constraints = nil
				report.ConstraintsDeleted++
				dirty = true
			}
		}

		if dirty {
			if err := entities.Update(ctx, e); err != nil {
				span.RecordError(err)
				return report, err
			}
		}
	}

	span.SetAttributes(
		attribute.Int("sanitize.fields_deleted", report.FieldsDeleted),
		attribute.Int("sanitize.constraints_deleted", report.ConstraintsDeleted),
	)
	return report, nil
}

func logSanitized(log logger.Logger, m metrics.MetricsService, entityID, fieldID, violation string) {
	if log != nil {
		log.Warn("sanitization_deleted", logger.Fields{
			"entity_id": entityID,
			"field_id":  fieldID,
			"violation": violation,
		})
	}
	m.IncrementCounter("schemakit_sanitization_deleted_total", metrics.Fields{
		"violation": violation,
	})
}
