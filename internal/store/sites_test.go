package store

import (
	"context"
	"errors"
	"testing"

	"github.com/olegiv/hcms-go/internal/model"
)

func TestSitesCreateDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	site, err := s.Sites.Create(ctx, CreateSiteInput{Name: "Docs", Slug: "docs"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(site.Locales) != 1 || site.Locales[0] != model.DefaultLocale {
		t.Errorf("locales not defaulted: %v", site.Locales)
	}
	if site.DefaultLocale != model.DefaultLocale {
		t.Errorf("default locale = %q", site.DefaultLocale)
	}
	if site.Theme != model.DefaultTheme {
		t.Errorf("theme = %q", site.Theme)
	}
}

func TestSitesCreateValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var verr *model.ValidationError
	_, err := s.Sites.Create(ctx, CreateSiteInput{Name: "Bad", Slug: "Not A Slug"}, nil)
	if !errors.As(err, &verr) {
		t.Errorf("bad slug: got %v, want ValidationError", err)
	}
	_, err = s.Sites.Create(ctx, CreateSiteInput{Name: "Bad", Slug: "bad", Locales: []string{"notalocale!!"}}, nil)
	if !errors.As(err, &verr) {
		t.Errorf("bad locale: got %v, want ValidationError", err)
	}
	_, err = s.Sites.Create(ctx, CreateSiteInput{
		Name: "Bad", Slug: "bad", Locales: []string{"en"}, DefaultLocale: "de",
	}, nil)
	if !errors.As(err, &verr) {
		t.Errorf("default outside set: got %v, want ValidationError", err)
	}
}

func TestSitesSlugUniqueAmongLive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Sites.Create(ctx, CreateSiteInput{Name: "One", Slug: "shared"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Sites.Create(ctx, CreateSiteInput{Name: "Two", Slug: "shared"}, nil); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("duplicate slug: got %v, want ErrAlreadyExists", err)
	}

	if err := s.Sites.SoftDelete(ctx, first.ID, nil); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := s.Sites.Create(ctx, CreateSiteInput{Name: "Two", Slug: "shared"}, nil); err != nil {
		t.Fatalf("recreate after soft delete: %v", err)
	}
}

func TestSitesDomainUniqueAcrossDeletionStates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	domain := "www.example.com"
	first, err := s.Sites.Create(ctx, CreateSiteInput{Name: "One", Slug: "one", Domain: &domain}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Sites.SoftDelete(ctx, first.ID, nil); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	// Unlike slugs, domains stay reserved while the holder is deleted.
	if _, err := s.Sites.Create(ctx, CreateSiteInput{Name: "Two", Slug: "two", Domain: &domain}, nil); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("duplicate domain: got %v, want ErrAlreadyExists", err)
	}

	// Multiple sites without a domain coexist.
	if _, err := s.Sites.Create(ctx, CreateSiteInput{Name: "Three", Slug: "three"}, nil); err != nil {
		t.Fatalf("domainless site: %v", err)
	}
	if _, err := s.Sites.Create(ctx, CreateSiteInput{Name: "Four", Slug: "four"}, nil); err != nil {
		t.Fatalf("second domainless site: %v", err)
	}
}

func TestSitesUpdateLocaleInvariant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	site, err := s.Sites.Create(ctx, CreateSiteInput{
		Name: "Multi", Slug: "multi", Locales: []string{"en", "de"}, DefaultLocale: "de",
	}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Shrinking the locale set under the current default is rejected even
	// though the patch itself does not name the default.
	var verr *model.ValidationError
	_, err = s.Sites.Update(ctx, site.ID, UpdateSiteInput{Locales: []string{"en"}}, nil)
	if !errors.As(err, &verr) {
		t.Fatalf("shrink under default: got %v, want ValidationError", err)
	}

	// Moving default and set together succeeds.
	updated, err := s.Sites.Update(ctx, site.ID, UpdateSiteInput{
		Locales:       []string{"en", "fr"},
		DefaultLocale: strPtr("fr"),
	}, nil)
	if err != nil {
		t.Fatalf("joint update: %v", err)
	}
	if updated.DefaultLocale != "fr" || len(updated.Locales) != 2 {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestSitesUpdateClearDomain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	domain := "cms.example.org"
	site, err := s.Sites.Create(ctx, CreateSiteInput{Name: "D", Slug: "d", Domain: &domain}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := s.Sites.Update(ctx, site.ID, UpdateSiteInput{Domain: Clear[string]()}, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Domain != nil {
		t.Errorf("domain not cleared: %v", *updated.Domain)
	}

	// The freed domain is immediately claimable.
	if _, err := s.Sites.Create(ctx, CreateSiteInput{Name: "E", Slug: "e", Domain: &domain}, nil); err != nil {
		t.Fatalf("reclaim domain: %v", err)
	}
}

func TestSitesFindBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	site, err := s.Sites.Create(ctx, CreateSiteInput{Name: "Find", Slug: "find-me"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Sites.FindBySlug(ctx, "  FIND-ME ", ScopeLive)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if got.ID != site.ID {
		t.Errorf("found %d, want %d", got.ID, site.ID)
	}

	if _, err := s.Sites.FindBySlug(ctx, "missing", ScopeLive); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing slug: got %v, want ErrNotFound", err)
	}
}
