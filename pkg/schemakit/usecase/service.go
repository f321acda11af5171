// Package usecase implements the "load → check invariants → mutate →
// save" pattern for every schema-design operation:
// one Service method per responsibility, each deriving its validation
// from a single repository read (a single-snapshot per use-case). IDs
// returned to presentation are already plain strings, and every method
// returns a plain (value, error) pair; there is no result wrapper type.
package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/niiniyare/schemaforge/pkg/cache"
	"github.com/niiniyare/schemaforge/pkg/encryption"
	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/metrics"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/formula"
	"github.com/niiniyare/schemaforge/pkg/schemakit/governance"
	"github.com/niiniyare/schemaforge/pkg/schemakit/ids"
	"github.com/niiniyare/schemaforge/pkg/schemakit/repository"
	"github.com/niiniyare/schemaforge/pkg/shared"
	"github.com/niiniyare/schemaforge/pkg/tracing"
)

// governanceCacheTTL bounds how long a memoized governance result may be
// served before the pipeline re-runs, so a change to the analyzer or
// governance rules (a deploy, not a schema edit — schema edits always
// change the cache key) converges within one interval.
const governanceCacheTTL = 10 * time.Minute

// Service is the entry point the HTTP API and CLI call into. It holds no
// mutable state of its own: every method loads what it needs from repo,
// mutates an in-memory aggregate, and writes back before returning.
type Service struct {
	Entities      repository.EntityRepository
	Relationships repository.RelationshipRepository
	Log           logger.Logger
	Metrics       metrics.MetricsService

	// Tracer wraps the longer-running use-case operations (export, import,
	// compare) in OpenTelemetry spans. Nil is valid — every call site falls
	// back to a no-op tracer, matching GovernanceCache's "nil disables it"
	// convention.
	Tracer tracing.Service

	// GovernanceCache memoizes governance.Classify results keyed by
	// (formula text, field-set fingerprint). Nil is a
	// valid value — every call site falls back to calling governance.Classify
	// directly when no cache is configured (e.g. the CLI's one-shot runs).
	GovernanceCache cache.Service

	// Encryption, when set, seals exported schema documents at rest and
	// unseals them again on import. Optional, never mandatory.
	// Nil disables sealing entirely.
	Encryption      encryption.EncryptionService
	EncryptionKeyID encryption.KeyID
}

// New constructs a Service over the given repositories.
func New(entities repository.EntityRepository, relationships repository.RelationshipRepository, log logger.Logger, m metrics.MetricsService) *Service {
	return &Service{Entities: entities, Relationships: relationships, Log: log, Metrics: m}
}

// classifyGoverned runs governance.Classify, serving a cached result when
// s.GovernanceCache is configured and populated. Formula text and the
// field-set fingerprint are both part of the cache key, so a schema edit
// that changes field types naturally invalidates stale entries.
func (s *Service) classifyGoverned(ctx context.Context, text string, fields formula.FieldSet, inCycle bool) governance.Result {
	if s.GovernanceCache == nil {
		return governance.Classify(text, fields, inCycle)
	}

	// Governance classification depends only on the formula text and the
	// field-set shape, never on tenant identity, so the global memory tier
	// is the right one — the tenant-aware tier would fail key building on
	// CLI calls that carry no tenant context.
	key := governanceCacheKey(text, fields, inCycle)
	var cached governance.Result
	if err := s.GovernanceCache.GetGlobalMemory(key, &cached); err == nil {
		return cached
	}

	result := governance.Classify(text, fields, inCycle)
	_ = s.GovernanceCache.SetGlobalMemory(key, result, governanceCacheTTL)
	return result
}

// governanceCacheKey fingerprints (text, fields, inCycle) into a stable
// cache key: field order in a formula.FieldSet map is unspecified, so the
// ids are sorted before hashing.
func governanceCacheKey(text string, fields formula.FieldSet, inCycle bool) string {
	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString(text)
	b.WriteByte('\x00')
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte(':')
		b.WriteString(string(fields[id]))
		b.WriteByte(';')
	}
	if inCycle {
		b.WriteString("|cycle")
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "schemakit:governance:" + hex.EncodeToString(sum[:])
}

// loadView builds the SchemaView a use-case needs for cross-entity
// invariant checks, from a single repository read. The entity, field,
// option, control-rule, output-mapping, export, compare and
// CreateRelationship use-cases call this exactly once, at the top of
// their execution; ImportSchema and the other relationship use-cases
// read the repositories directly instead.
func (s *Service) loadView(ctx context.Context) (*aggregate.SchemaView, []*aggregate.Entity, error) {
	entities, err := s.Entities.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return aggregate.NewSchemaView(entities), entities, nil
}

// loadEntity fetches a single entity from the pre-loaded snapshot, or
// fails with ErrEntityNotFound — every command needs this first step.
func loadEntity(view *aggregate.SchemaView, entityID ids.EntityId) (*aggregate.Entity, error) {
	e, ok := view.Entity(entityID)
	if !ok {
		return nil, entityNotFound(entityID)
	}
	return e, nil
}

// buildCalculatedDepGraph constructs the field_id -> referenced_field_ids
// mapping the formula analyzer's entity-scoped cycle detector consumes.
// Only CALCULATED fields contribute formula text; every field in e is
// still a graph node so an unrelated field can never participate in a
// reported cycle.
func buildCalculatedDepGraph(e *aggregate.Entity) map[string][]string {
	graph := make(map[string][]string, e.FieldCount())
	for _, f := range e.Fields() {
		graph[string(f.ID)] = nil
	}
	for _, f := range e.Fields() {
		if f.Formula == "" {
			continue
		}
		deps, err := formula.Dependencies(f.Formula, fieldSetOf(e))
		if err != nil {
			continue
		}
		refs := make([]string, 0, len(deps))
		for _, d := range deps {
			refs = append(refs, d.FieldID)
		}
		graph[string(f.ID)] = refs
	}
	return graph
}

func fieldSetOf(e *aggregate.Entity) formula.FieldSet {
	fs := make(formula.FieldSet, e.FieldCount())
	for _, f := range e.Fields() {
		fs[string(f.ID)] = f.Type
	}
	return fs
}

// inCycle reports whether fieldID participates in a dependency cycle
// within e, per the entity-scoped cycle analysis.
func inCycle(e *aggregate.Entity, fieldID ids.FieldId) bool {
	result := formula.CycleAnalysis(buildCalculatedDepGraph(e))
	for _, id := range result.AllCycleFieldIDs {
		if id == string(fieldID) {
			return true
		}
	}
	return false
}

// startSpan opens a span on s.Tracer for a longer-running operation,
// falling back to a no-op tracer when none is configured. Callers defer
// span.End() and call span.RecordError on failure.
func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, tracing.Span) {
	tracer := s.Tracer
	if tracer == nil {
		tracer = tracing.NewNoOpService()
	}
	ctx, span := tracer.StartSpan(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}

// logAndCount emits a structured log line and increments the shared
// use-case counter, tagged by event name — every mutating command calls
// this once on success.
// logAndCount logs event at info level and increments the use-case
// operation counter. When ctx carries a shared.RequestContext (set by
// cmd/schemaforge-api's request middleware), its trace id and remote IP
// are folded into the logged fields for audit correlation; ctx carrying
// no RequestContext — e.g. every CLI invocation — logs exactly as
// before.
func (s *Service) logAndCount(ctx context.Context, event string, fields logger.Fields) {
	if reqCtx, ok := shared.GetRequestContext(ctx); ok {
		enriched := make(logger.Fields, len(fields)+2)
		for k, v := range fields {
			enriched[k] = v
		}
		if reqCtx.TraceID != "" {
			enriched["trace_id"] = reqCtx.TraceID
		}
		if reqCtx.IPAddress != "" {
			enriched["remote_ip"] = reqCtx.IPAddress
		}
		fields = enriched
	}

	if s.Log != nil {
		s.Log.Info(event, fields)
	}
	mf := make(metrics.Fields, len(fields)+1)
	for k, v := range fields {
		mf[k] = v
	}
	mf["event"] = event
	s.Metrics.IncrementCounter("schemakit_usecase_total", mf)
}
