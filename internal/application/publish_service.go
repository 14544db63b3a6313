package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/openkraft/bhce2gw/internal/domain"
)

// PublishService writes an aggregate into a Ghostwriter report:
// whoami → fetch extraFields → merge → update.
type PublishService struct {
	reports domain.ReportClient
	logger  zerolog.Logger
}

func NewPublishService(reports domain.ReportClient, logger zerolog.Logger) *PublishService {
	return &PublishService{reports: reports, logger: logger}
}

// Publish stores report under fieldName in the extraFields of reportID and
// returns the fields the server stored. Any failure is a *domain.PublishError.
// Concurrent edits of the report between fetch and update are lost.
func (s *PublishService) Publish(ctx context.Context, reportID int64, fieldName string, report *domain.AggregateReport) (domain.ExtraFields, error) {
	s.logger.Info().Msg("Authenticating to the Ghostwriter API")
	id, err := s.reports.Whoami(ctx)
	if err != nil {
		return nil, publishError(domain.StageAuthenticate, err)
	}
	s.logger.Info().Str("username", id.Username).Str("role", id.Role).Msg("Authenticated")

	s.logger.Info().Int64("report_id", reportID).Msg("Fetching field data from report")
	current, err := s.reports.FetchExtraFields(ctx, reportID)
	if err != nil {
		return nil, publishError(domain.StageFetch, err)
	}

	s.logger.Info().Str("field", fieldName).Msg("Updating field with new data")
	stored, err := s.reports.UpdateExtraFields(ctx, reportID, domain.MergeExtraFields(current, fieldName, report))
	if err != nil {
		return nil, publishError(domain.StageUpdate, err)
	}
	return stored, nil
}

func publishError(stage domain.PublishStage, err error) *domain.PublishError {
	return &domain.PublishError{Stage: stage, Category: domain.CategoryOf(err), Err: err}
}
