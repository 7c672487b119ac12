package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/olegiv/hcms-go/internal/model"
)

func seedSite(t *testing.T, s *Store, slug string) model.Site {
	t.Helper()
	site, err := s.Sites.Create(context.Background(), CreateSiteInput{Name: slug, Slug: slug}, nil)
	if err != nil {
		t.Fatalf("creating site %s: %v", slug, err)
	}
	return site
}

func TestContentTypesCreate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	site := seedSite(t, s, "ct-site")

	ct, err := s.ContentTypes.Create(ctx, CreateContentTypeInput{
		SiteID: site.ID,
		Name:   "Article",
		APIID:  "Article-Type",
		Fields: []model.ContentField{
			{Key: "body", Label: "Body", Type: model.FieldTypeRichText, Required: true},
			{Key: "tags", Label: "Tags", Type: model.FieldTypeMultiSelect, Options: []string{"a", "b"}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ct.APIID != "article-type" {
		t.Errorf("api id not lowercased: %q", ct.APIID)
	}
	if len(ct.Fields) != 2 {
		t.Errorf("fields = %v", ct.Fields)
	}
}

func TestContentTypesFieldValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	site := seedSite(t, s, "ct-val")

	var verr *model.ValidationError
	cases := []struct {
		name   string
		fields []model.ContentField
	}{
		{"duplicate keys", []model.ContentField{
			{Key: "body", Label: "Body", Type: model.FieldTypeText},
			{Key: "body", Label: "Again", Type: model.FieldTypeText},
		}},
		{"bad key", []model.ContentField{
			{Key: "Not Kebab", Label: "X", Type: model.FieldTypeText},
		}},
		{"unknown type", []model.ContentField{
			{Key: "x", Label: "X", Type: "geopoint"},
		}},
		{"select without options", []model.ContentField{
			{Key: "x", Label: "X", Type: model.FieldTypeSelect},
		}},
		{"relation without target", []model.ContentField{
			{Key: "x", Label: "X", Type: model.FieldTypeRelation},
		}},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.ContentTypes.Create(ctx, CreateContentTypeInput{
				SiteID: site.ID, Name: "Bad", APIID: fmt.Sprintf("bad-%d", i), Fields: tc.fields,
			}, nil)
			if !errors.As(err, &verr) {
				t.Errorf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestContentTypesAPIIDUniquePerSite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	siteA := seedSite(t, s, "tenant-a")
	siteB := seedSite(t, s, "tenant-b")

	first, err := s.ContentTypes.Create(ctx, CreateContentTypeInput{SiteID: siteA.ID, Name: "Post", APIID: "post"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Same api id on the same site collides.
	if _, err := s.ContentTypes.Create(ctx, CreateContentTypeInput{SiteID: siteA.ID, Name: "Post2", APIID: "post"}, nil); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("same-site duplicate: got %v, want ErrAlreadyExists", err)
	}
	// The other tenant is free to use it.
	if _, err := s.ContentTypes.Create(ctx, CreateContentTypeInput{SiteID: siteB.ID, Name: "Post", APIID: "post"}, nil); err != nil {
		t.Fatalf("cross-site same api id: %v", err)
	}

	// Soft deletion frees the api id within the site.
	if err := s.ContentTypes.SoftDelete(ctx, first.ID, nil); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := s.ContentTypes.Create(ctx, CreateContentTypeInput{SiteID: siteA.ID, Name: "Post3", APIID: "post"}, nil); err != nil {
		t.Fatalf("recreate after soft delete: %v", err)
	}
}

func TestContentTypesFindByAPIID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	site := seedSite(t, s, "find-ct")

	created, err := s.ContentTypes.Create(ctx, CreateContentTypeInput{SiteID: site.ID, Name: "Page", APIID: "page"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.ContentTypes.FindByAPIID(ctx, site.ID, " PAGE ", ScopeLive)
	if err != nil {
		t.Fatalf("FindByAPIID: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("found %d, want %d", got.ID, created.ID)
	}

	if _, err := s.ContentTypes.FindByAPIID(ctx, site.ID+1, "page", ScopeLive); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong site: got %v, want ErrNotFound", err)
	}
}

func TestContentTypesUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	site := seedSite(t, s, "upd-ct")

	ct, err := s.ContentTypes.Create(ctx, CreateContentTypeInput{SiteID: site.ID, Name: "Doc", APIID: "doc"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	desc := "long-form documentation"
	updated, err := s.ContentTypes.Update(ctx, ct.ID, UpdateContentTypeInput{
		Description: Set(desc),
		Fields: []model.ContentField{
			{Key: "body", Label: "Body", Type: model.FieldTypeMarkdown, Required: true},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description == nil || *updated.Description != desc {
		t.Errorf("description = %v", updated.Description)
	}
	if len(updated.Fields) != 1 || updated.Fields[0].Key != "body" {
		t.Errorf("fields = %v", updated.Fields)
	}

	var verr *model.ValidationError
	_, err = s.ContentTypes.Update(ctx, ct.ID, UpdateContentTypeInput{
		Fields: []model.ContentField{{Key: "body", Label: "", Type: model.FieldTypeText}},
	}, nil)
	if !errors.As(err, &verr) {
		t.Errorf("invalid field patch: got %v, want ValidationError", err)
	}

	if _, err := s.ContentTypes.Update(ctx, ct.ID+100, UpdateContentTypeInput{Name: strPtr("X")}, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}
