package usecase

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/attribute"

	"github.com/niiniyare/schemaforge/pkg/encryption"
	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/logger"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/interchange"
)

// ExportSchema writes the current repository snapshot to path as the
// stable schema document. When s.Encryption is
// configured, the written document is sealed at rest under
// s.EncryptionKeyID — an opt-in supplement, never mandatory.
func (s *Service) ExportSchema(ctx context.Context, path, schemaID, version string) (*interchange.ExportResult, error) {
	ctx, span := s.startSpan(ctx, "schemakit.export_schema", attribute.String("schema.id", schemaID), attribute.String("schema.version", version))
	defer span.End()

	_, entities, err := s.loadView(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	relationships, err := s.Relationships.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	result, err := interchange.Export(path, schemaID, version, entities, relationships)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.Encryption != nil {
		if err := s.sealAtRest(ctx, path); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int("schema.entity_count", len(entities)), attribute.Bool("schema.sealed", s.Encryption != nil))
	s.logAndCount(ctx, "schema_exported", logger.Fields{"path": path, "schema_id": schemaID, "entity_count": len(entities), "sealed": s.Encryption != nil})
	return result, nil
}

// sealAtRest replaces path's plaintext contents with the marshaled
// AES-256-GCM payload s.Encryption produces under s.EncryptionKeyID.
func (s *Service) sealAtRest(ctx context.Context, path string) error {
	plaintext, err := os.ReadFile(path)
	if err != nil {
		return errors.NewRepositoryError(errors.CodeFileReadFailed, "read export file for sealing", err)
	}
	payload, err := s.Encryption.Encrypt(ctx, string(plaintext), s.EncryptionKeyID)
	if err != nil {
		return errors.NewRepositoryError(errors.CodeFileReadFailed, "seal export file", err)
	}
	if err := os.WriteFile(path, payload.Marshal(), 0o600); err != nil {
		return errors.NewRepositoryError(errors.CodeFileReadFailed, "write sealed export file", err)
	}
	return nil
}

// unsealAtRest reverses sealAtRest: path's contents are parsed as a
// marshaled EncryptedPayload and decrypted back to the plaintext schema
// document, written back in place before the import pipeline reads it.
func (s *Service) unsealAtRest(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewRepositoryError(errors.CodeFileReadFailed, "read sealed import file", err)
	}
	payload, err := encryption.UnmarshalEncryptedPayload(data)
	if err != nil {
		return errors.NewRepositoryError(errors.CodeJSONSyntax, "parse sealed import file", err)
	}
	plaintext, err := s.Encryption.Decrypt(ctx, payload)
	if err != nil {
		return errors.NewRepositoryError(errors.CodeFileReadFailed, "unseal import file", err)
	}
	if err := os.WriteFile(path, []byte(plaintext), 0o600); err != nil {
		return errors.NewRepositoryError(errors.CodeFileReadFailed, "write unsealed import file", err)
	}
	return nil
}

// ImportSchema runs the three-layer import pipeline and,
// on success, replaces every persisted entity and relationship with the
// imported ones — an atomic swap at the use-case boundary: the pipeline
// itself never touches a repository, so a validation failure leaves the
// existing schema untouched.
func (s *Service) ImportSchema(ctx context.Context, path string) (*interchange.ImportResult, error) {
	ctx, span := s.startSpan(ctx, "schemakit.import_schema", attribute.String("import.path", path))
	defer span.End()

	if s.Encryption != nil {
		if err := s.unsealAtRest(ctx, path); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	result, err := interchange.Import(path)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	existing, err := s.Entities.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, e := range existing {
		if err := s.Entities.Delete(ctx, e.ID); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}
	for _, e := range result.Schema.Entities() {
		if err := s.Entities.Save(ctx, e); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	existingRels, err := s.Relationships.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, r := range existingRels {
		if err := s.Relationships.Delete(ctx, r.ID); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}
	for _, r := range result.Schema.Relationships() {
		if err := s.Relationships.Save(ctx, r); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int("import.warning_count", len(result.Warnings)))
	s.logAndCount(ctx, "schema_imported", logger.Fields{"path": path, "warning_count": len(result.Warnings)})
	return result, nil
}

// CompareSchema diffs the current repository snapshot (source) against
// target — typically the entities of a schema document loaded elsewhere
// via interchange.Import — and suggests the semver bump target's changes
// imply.
func (s *Service) CompareSchema(ctx context.Context, current interchange.Version, target []*aggregate.Entity) (interchange.CompareResult, error) {
	ctx, span := s.startSpan(ctx, "schemakit.compare_schema")
	defer span.End()

	_, source, err := s.loadView(ctx)
	if err != nil {
		span.RecordError(err)
		return interchange.CompareResult{}, err
	}
	result := interchange.Compare(current, source, target)
	span.SetAttributes(attribute.Int("compare.change_count", len(result.Changes)), attribute.String("compare.verdict", string(result.Verdict)))
	s.logAndCount(ctx, "schema_compared", logger.Fields{"change_count": len(result.Changes), "verdict": string(result.Verdict)})
	return result, nil
}
