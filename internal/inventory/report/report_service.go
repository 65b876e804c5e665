package report

import (
	"bytes"
	"context"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"go.uber.org/zap"
)

// ReportService reads committed assignments only; it never writes.
type ReportService struct {
	store  repository.Transactor
	repo   Repository
	logger *zap.Logger
}

func NewService(store repository.Transactor, repo Repository, logger *zap.Logger) *ReportService {
	return &ReportService{
		store:  store,
		repo:   repo,
		logger: logger,
	}
}

func (s *ReportService) Projections(ctx context.Context, filter models.ProjectionFilter) ([]models.AssignmentProjection, error) {
	return s.repo.ListProjections(ctx, s.store.Executor(), filter)
}

func (s *ReportService) AssignmentsWorkbook(ctx context.Context, filter models.ProjectionFilter) (*bytes.Buffer, error) {
	rows, err := s.Projections(ctx, filter)
	if err != nil {
		return nil, err
	}

	buf, err := RenderWorkbook(rows)
	if err != nil {
		s.logger.Error("Unable to render assignments workbook", zap.Int("rows", len(rows)), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("Rendered assignments workbook", zap.Int("rows", len(rows)), zap.Int("bytes", buf.Len()))
	return buf, nil
}
