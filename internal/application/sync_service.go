package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openkraft/bhce2gw/internal/domain"
)

// SyncService runs the whole pipeline:
// collect → write local artifact → publish to Ghostwriter.
// Publishing is best effort: once the artifact is written, a publish failure
// is reported in SyncResult instead of failing the run.
type SyncService struct {
	collect *CollectService
	store   domain.ReportStore
	publish *PublishService
	logger  zerolog.Logger
}

func NewSyncService(collect *CollectService, store domain.ReportStore, publish *PublishService, logger zerolog.Logger) *SyncService {
	return &SyncService{collect: collect, store: store, publish: publish, logger: logger}
}

// SyncResult describes a run that got at least as far as the local artifact.
type SyncResult struct {
	Report     *domain.AggregateReport
	OutputPath string
	// Fields is what Ghostwriter stored; nil when publishing failed.
	Fields     domain.ExtraFields
	PublishErr *domain.PublishError
}

// Sync runs collect, save and publish. The returned error is non-nil only
// when nothing durable was produced.
func (s *SyncService) Sync(ctx context.Context, cfg domain.Config, outputPath string) (*SyncResult, error) {
	report, err := s.collect.Collect(ctx, cfg.BloodHound)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(outputPath, report); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outputPath, err)
	}
	s.logger.Info().Str("path", outputPath).Int("domains", len(report.Domains)).Msg("Wrote aggregate")

	result := &SyncResult{Report: report, OutputPath: outputPath}
	result.Fields, result.PublishErr = s.publishLogged(ctx, cfg.Ghostwriter, report)
	return result, nil
}

// Republish publishes a previously written artifact without querying
// BloodHound.
func (s *SyncService) Republish(ctx context.Context, cfg domain.GhostwriterConfig, outputPath string) (*SyncResult, error) {
	report, err := s.store.Load(outputPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", outputPath, err)
	}

	result := &SyncResult{Report: report, OutputPath: outputPath}
	result.Fields, result.PublishErr = s.publishLogged(ctx, cfg, report)
	return result, nil
}

func (s *SyncService) publishLogged(ctx context.Context, cfg domain.GhostwriterConfig, report *domain.AggregateReport) (domain.ExtraFields, *domain.PublishError) {
	fields, err := s.publish.Publish(ctx, cfg.ReportID, cfg.FieldName, report)
	if err == nil {
		s.logger.Info().Int64("report_id", cfg.ReportID).Str("field", cfg.FieldName).Msg("Published aggregate")
		return fields, nil
	}

	var pubErr *domain.PublishError
	if !errors.As(err, &pubErr) {
		pubErr = &domain.PublishError{Stage: domain.StageUpdate, Category: domain.CategoryOf(err), Err: err}
	}
	s.logger.Error().
		Err(pubErr.Err).
		Str("stage", string(pubErr.Stage)).
		Str("category", string(pubErr.Category)).
		Msg("Publishing to Ghostwriter failed")
	return nil, pubErr
}
