package server

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/db"
	"github.com/jonathan/profile-report/internal/rendering"
	"github.com/jonathan/profile-report/internal/types"
)

// Archive persists reports beyond the life of the process. *db.DB implements it.
type Archive interface {
	SaveReport(ctx context.Context, r *db.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*db.Report, error)
	ListReports(ctx context.Context, limit int) ([]types.ReportSummary, error)
	MarkExported(ctx context.Context, id uuid.UUID, filename string) error
}

// store keeps the live report DOMs served by this process
type store struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*rendering.Report
}

func newStore() *store {
	return &store{reports: make(map[uuid.UUID]*rendering.Report)}
}

func (s *store) put(r *rendering.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
}

// putIfAbsent stores r unless a report with the same ID is already live,
// and returns the one that ends up stored.
func (s *store) putIfAbsent(r *rendering.Report) *rendering.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.reports[r.ID]; ok {
		return existing
	}
	s.reports[r.ID] = r
	return r
}

func (s *store) get(id uuid.UUID) (*rendering.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	return r, ok
}

// summaries lists live reports newest first
func (s *store) summaries() []types.ReportSummary {
	s.mu.RLock()
	out := make([]types.ReportSummary, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, summarize(r))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func summarize(r *rendering.Report) types.ReportSummary {
	s := types.ReportSummary{
		ID:           r.ID,
		OverallScore: r.Result.OverallScore,
		CreatedAt:    r.CreatedAt,
	}
	if r.Meta != nil {
		s.Name = r.Meta.Name
		s.Email = r.Meta.Email
		s.LinkedIn = r.Meta.LinkedIn
	}
	return s
}
