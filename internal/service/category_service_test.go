package service_test

import (
	"context"
	"testing"

	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
	"github.com/kamalhaddad27/servicedesk-fik/internal/service"
	apperrors "github.com/kamalhaddad27/servicedesk-fik/pkg/util"
)

func TestCategoryCreate(t *testing.T) {
	categories := newFakeCategoryRepo()
	svc := service.NewCategoryService(categories)
	ctx := context.Background()
	admin := &domain.Actor{ID: 1, Role: domain.RoleAdmin}
	staff := &domain.Actor{ID: 2, Role: domain.RoleStaff}

	created, err := svc.Create(ctx, admin, service.CategoryCreateInput{
		Name:          "  Network  ",
		Subcategories: []string{"Wifi", " VPN ", ""},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Network" || !created.IsActive {
		t.Errorf("created = %+v", created)
	}
	if len(created.Subcategories) != 2 || created.Subcategories[1] != "VPN" {
		t.Errorf("subcategories = %v", created.Subcategories)
	}

	wantDomainError(t, mustErr(svc.Create(ctx, staff, service.CategoryCreateInput{Name: "X"})), apperrors.CodeForbidden)
	wantDomainError(t, mustErr(svc.Create(ctx, admin, service.CategoryCreateInput{Name: "   "})), apperrors.CodeValidation)
}

func TestCategoryListAndSetActive(t *testing.T) {
	categories := newFakeCategoryRepo()
	svc := service.NewCategoryService(categories)
	ctx := context.Background()
	admin := &domain.Actor{ID: 1, Role: domain.RoleAdmin}
	user := &domain.Actor{ID: 2, Role: domain.RoleUser}

	active := categories.add(domain.Category{Name: "Hardware", IsActive: true})
	retired := categories.add(domain.Category{Name: "Retired", IsActive: false})

	adminView, err := svc.List(ctx, admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminView) != 2 {
		t.Errorf("admin sees %d categories, want 2", len(adminView))
	}

	userView, err := svc.List(ctx, user)
	if err != nil {
		t.Fatalf("user list: %v", err)
	}
	if len(userView) != 1 || userView[0].ID != active.ID {
		t.Errorf("user sees %d categories, want active only", len(userView))
	}

	if err := svc.SetActive(ctx, admin, retired.ID, true); err != nil {
		t.Fatalf("set active: %v", err)
	}
	userView, err = svc.List(ctx, user)
	if err != nil {
		t.Fatalf("user list after enable: %v", err)
	}
	if len(userView) != 2 {
		t.Errorf("user sees %d categories after enable, want 2", len(userView))
	}

	wantDomainError(t, svc.SetActive(ctx, user, active.ID, false), apperrors.CodeForbidden)
	wantDomainError(t, svc.SetActive(ctx, admin, 9999, false), apperrors.CodeNotFound)
}
