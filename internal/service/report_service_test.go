package service_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
	"github.com/kamalhaddad27/servicedesk-fik/internal/service"
	apperrors "github.com/kamalhaddad27/servicedesk-fik/pkg/util"
)

func newReportFixture() (*fakeReportRepo, *fakeReportCache, *service.ReportService) {
	repo := &fakeReportRepo{
		byStatus: map[domain.TicketStatus]int{
			domain.TicketStatusPending:  3,
			domain.TicketStatusProgress: 4,
			domain.TicketStatusDone:     10,
			domain.TicketStatusCancel:   2,
		},
		byPriority: map[domain.TicketPriority]int{
			domain.TicketPriorityLow:  12,
			domain.TicketPriorityHigh: 7,
		},
		byCategory: map[int64]int{1: 19},
	}
	cache := newFakeReportCache()
	svc := service.NewReportService(repo, cache, time.Minute, zap.NewNop())
	return repo, cache, svc
}

func TestReportSummary(t *testing.T) {
	_, _, svc := newReportFixture()
	executive := &domain.Actor{ID: 1, Role: domain.RoleExecutive, Active: true}

	summary, err := svc.Summary(context.Background(), executive)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalTickets != 19 {
		t.Errorf("total = %d, want 19", summary.TotalTickets)
	}
	if summary.OpenTickets != 7 {
		t.Errorf("open = %d, want 7", summary.OpenTickets)
	}
	if summary.Resolved != 10 || summary.Cancelled != 2 {
		t.Errorf("resolved=%d cancelled=%d", summary.Resolved, summary.Cancelled)
	}
	if summary.ByPriority[domain.TicketPriorityHigh] != 7 {
		t.Errorf("high priority = %d, want 7", summary.ByPriority[domain.TicketPriorityHigh])
	}
}

func TestReportSummaryRoles(t *testing.T) {
	_, _, svc := newReportFixture()
	ctx := context.Background()

	if _, err := svc.Summary(ctx, &domain.Actor{ID: 1, Role: domain.RoleAdmin}); err != nil {
		t.Errorf("admin: %v", err)
	}
	wantDomainError(t, mustErr(svc.Summary(ctx, &domain.Actor{ID: 2, Role: domain.RoleStaff})), apperrors.CodeForbidden)
	wantDomainError(t, mustErr(svc.Summary(ctx, &domain.Actor{ID: 3, Role: domain.RoleUser})), apperrors.CodeForbidden)
}

func TestReportSummaryCached(t *testing.T) {
	repo, _, svc := newReportFixture()
	ctx := context.Background()
	executive := &domain.Actor{ID: 1, Role: domain.RoleExecutive}

	if _, err := svc.Summary(ctx, executive); err != nil {
		t.Fatalf("first summary: %v", err)
	}
	first := repo.calls

	summary, err := svc.Summary(ctx, executive)
	if err != nil {
		t.Fatalf("second summary: %v", err)
	}
	if repo.calls != first {
		t.Errorf("second call hit the repository (%d -> %d calls)", first, repo.calls)
	}
	if summary.TotalTickets != 19 {
		t.Errorf("cached total = %d, want 19", summary.TotalTickets)
	}
}
