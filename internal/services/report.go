package services

import (
	"context"

	"github.com/lostfound/apiserver/internal/store"
	"github.com/lostfound/apiserver/types"
)

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	List(ctx context.Context, filter store.ReportFilter) ([]types.Report, error)
	Get(ctx context.Context, id string) (types.Report, error)
	Create(ctx context.Context, report types.Report) (types.Report, error)
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
	MarkMatched(ctx context.Context, lostID, foundID string) (lost, found types.Report, err error)
}

// ReportService encapsulates report use-cases.
type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) List(ctx context.Context, filter store.ReportFilter) ([]types.Report, error) {
	return s.repo.List(ctx, filter)
}

func (s *ReportService) ListByOwner(ctx context.Context, ownerID string) ([]types.Report, error) {
	return s.repo.List(ctx, store.ReportFilter{Owner: ownerID})
}

func (s *ReportService) Get(ctx context.Context, id string) (types.Report, error) {
	return s.repo.Get(ctx, id)
}

func (s *ReportService) Create(ctx context.Context, report types.Report) (types.Report, error) {
	return s.repo.Create(ctx, report)
}

func (s *ReportService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
