package models

import "testing"

func TestPostStatusValid(t *testing.T) {
	cases := []struct {
		status PostStatus
		want   bool
	}{
		{PostStatusDraft, true},
		{PostStatusPublished, true},
		{PostStatus(""), false},
		{PostStatus("archived"), false},
	}
	for _, tc := range cases {
		if got := tc.status.Valid(); got != tc.want {
			t.Errorf("Valid(%q): got %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestPostIsPublished(t *testing.T) {
	p := &Post{Status: PostStatusDraft}
	if p.IsPublished() {
		t.Error("draft post reported as published")
	}
	p.Status = PostStatusPublished
	if !p.IsPublished() {
		t.Error("published post not reported as published")
	}
}

func TestCategoryIsDefault(t *testing.T) {
	c := &Category{Name: DefaultCategoryName, Slug: DefaultCategorySlug}
	if !c.IsDefault() {
		t.Error("uncategorized not recognized as default")
	}
	c = &Category{Name: "Tech", Slug: "tech"}
	if c.IsDefault() {
		t.Error("tech wrongly recognized as default")
	}
}

func TestMediaHumanSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tc := range cases {
		m := &Media{SizeBytes: tc.bytes}
		if got := m.HumanSize(); got != tc.want {
			t.Errorf("HumanSize(%d): got %q, want %q", tc.bytes, got, tc.want)
		}
	}
}
