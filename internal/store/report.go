package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lostfound/apiserver/internal/recordstore"
	"github.com/lostfound/apiserver/types"
)

// ReportFilter selects reports by kind, status, or owner.
// Empty fields match everything.
type ReportFilter struct {
	Kind   string
	Status string
	Owner  string
}

func (f ReportFilter) matches(report types.Report) bool {
	if f.Kind != "" && report.Kind != f.Kind {
		return false
	}
	if f.Status != "" && report.Status != f.Status {
		return false
	}
	if f.Owner != "" && report.ReportedBy != f.Owner {
		return false
	}
	return true
}

// ReportRepository handles persistence for reports.
//
// Every operation is a read-modify-write of the whole reports collection,
// serialized by a single mutex.
type ReportRepository struct {
	store recordstore.Store
	mu    sync.Mutex
}

func NewReportRepository(store recordstore.Store) *ReportRepository {
	return &ReportRepository{store: store}
}

// List returns reports matching the filter, in insertion order.
func (r *ReportRepository) List(ctx context.Context, filter ReportFilter) ([]types.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := loadRecords[types.Report](ctx, r.store, recordstore.CollectionReports)
	if err != nil {
		return nil, err
	}

	matched := make([]types.Report, 0, len(reports))
	for _, report := range reports {
		if filter.matches(report) {
			matched = append(matched, report)
		}
	}
	return matched, nil
}

func (r *ReportRepository) Get(ctx context.Context, id string) (types.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := loadRecords[types.Report](ctx, r.store, recordstore.CollectionReports)
	if err != nil {
		return types.Report{}, err
	}
	for _, report := range reports {
		if report.ID == id {
			return report, nil
		}
	}
	return types.Report{}, ErrNotFound
}

// Create stores a new report with a fresh id, status active, and the
// current timestamp. Field contents are stored as the caller provided
// them; the repository does not validate them.
func (r *ReportRepository) Create(ctx context.Context, report types.Report) (types.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := loadRecords[types.Report](ctx, r.store, recordstore.CollectionReports)
	if err != nil {
		return types.Report{}, err
	}

	report.ID = uuid.NewString()
	report.Status = types.StatusActive
	report.MatchedWith = ""
	report.ReportedAt = time.Now()
	reports = append(reports, report)

	if err := saveRecords(ctx, r.store, recordstore.CollectionReports, reports); err != nil {
		return types.Report{}, err
	}
	return report, nil
}

// Delete removes a report if present. Deleting an unknown id is a no-op.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := loadRecords[types.Report](ctx, r.store, recordstore.CollectionReports)
	if err != nil {
		return err
	}

	kept := reports[:0]
	for _, report := range reports {
		if report.ID != id {
			kept = append(kept, report)
		}
	}
	if len(kept) == len(reports) {
		return nil
	}
	return saveRecords(ctx, r.store, recordstore.CollectionReports, kept)
}

// DeleteByOwner purges every report filed by the given user.
func (r *ReportRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := loadRecords[types.Report](ctx, r.store, recordstore.CollectionReports)
	if err != nil {
		return err
	}

	kept := reports[:0]
	for _, report := range reports {
		if report.ReportedBy != ownerID {
			kept = append(kept, report)
		}
	}
	if len(kept) == len(reports) {
		return nil
	}
	return saveRecords(ctx, r.store, recordstore.CollectionReports, kept)
}

// MarkMatched transitions a lost/found pair to matched, pointing each
// report's MatchedWith at the other, and persists both in one save.
// Lookups require the expected kind: a lostID that resolves to a found
// report is a lookup failure, not a kind change. On failure nothing is
// mutated and the returned error names the failing id(s).
func (r *ReportRepository) MarkMatched(ctx context.Context, lostID, foundID string) (lost, found types.Report, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := loadRecords[types.Report](ctx, r.store, recordstore.CollectionReports)
	if err != nil {
		return types.Report{}, types.Report{}, err
	}

	lostIdx, foundIdx := -1, -1
	for i, report := range reports {
		if report.ID == lostID && report.Kind == types.KindLost {
			lostIdx = i
		}
		if report.ID == foundID && report.Kind == types.KindFound {
			foundIdx = i
		}
	}
	if lostIdx < 0 || foundIdx < 0 {
		notFound := &MatchNotFoundError{}
		if lostIdx < 0 {
			notFound.LostID = lostID
		}
		if foundIdx < 0 {
			notFound.FoundID = foundID
		}
		return types.Report{}, types.Report{}, notFound
	}

	reports[lostIdx].Status = types.StatusMatched
	reports[lostIdx].MatchedWith = foundID
	reports[foundIdx].Status = types.StatusMatched
	reports[foundIdx].MatchedWith = lostID

	if err := saveRecords(ctx, r.store, recordstore.CollectionReports, reports); err != nil {
		return types.Report{}, types.Report{}, err
	}
	return reports[lostIdx], reports[foundIdx], nil
}
