package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
	"github.com/kamalhaddad27/servicedesk-fik/internal/repository"
	apperrors "github.com/kamalhaddad27/servicedesk-fik/pkg/util"
)

const reportCacheKey = "servicedesk:report:summary"

// ReportCache is the minimal cache surface the report service needs.
// Satisfied by persistence.Redis.
type ReportCache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
}

// ReportService produces aggregate ticket figures for executives. Results
// are cached briefly; staleness of a cache interval is acceptable here.
type ReportService struct {
	reports repository.ReportRepository
	cache   ReportCache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewReportService constructs the service. cache may be nil.
func NewReportService(reports repository.ReportRepository, cache ReportCache, ttl time.Duration, logger *zap.Logger) *ReportService {
	return &ReportService{reports: reports, cache: cache, ttl: ttl, logger: logger}
}

// ReportSummary is the executive dashboard payload.
type ReportSummary struct {
	TotalTickets int                           `json:"total_tickets"`
	OpenTickets  int                           `json:"open_tickets"`
	Resolved     int                           `json:"resolved"`
	Cancelled    int                           `json:"cancelled"`
	ByStatus     map[domain.TicketStatus]int   `json:"by_status"`
	ByPriority   map[domain.TicketPriority]int `json:"by_priority"`
	ByCategory   map[int64]int                 `json:"by_category"`
	GeneratedAt  time.Time                     `json:"generated_at"`
}

// Summary computes (or serves from cache) the aggregate ticket counts.
func (s *ReportService) Summary(ctx context.Context, actor *domain.Actor) (*ReportSummary, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if actor.Role != domain.RoleExecutive && actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("executive or admin required")
	}

	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	byStatus, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byPriority, err := s.reports.CountByPriority(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byCategory, err := s.reports.CountByCategory(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summary := &ReportSummary{
		ByStatus:    byStatus,
		ByPriority:  byPriority,
		ByCategory:  byCategory,
		Resolved:    byStatus[domain.TicketStatusDone],
		Cancelled:   byStatus[domain.TicketStatusCancel],
		GeneratedAt: time.Now(),
	}
	for status, count := range byStatus {
		summary.TotalTickets += count
		if !status.IsTerminal() {
			summary.OpenTickets += count
		}
	}

	s.toCache(ctx, summary)
	return summary, nil
}

func (s *ReportService) fromCache(ctx context.Context) *ReportSummary {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.GetString(ctx, reportCacheKey)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.Error(err))
		return nil
	}
	if raw == "" {
		return nil
	}
	var summary ReportSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		s.logger.Warn("report cache decode failed", zap.Error(err))
		return nil
	}
	return &summary
}

func (s *ReportService) toCache(ctx context.Context, summary *ReportSummary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.SetString(ctx, reportCacheKey, string(raw), s.ttl); err != nil {
		s.logger.Warn("report cache write failed", zap.Error(err))
	}
}
