package sitemap

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func TestGenerateIncludesHomeAndPosts(t *testing.T) {
	now := time.Now()
	posts := []models.Post{
		{
			ID: uuid.New(), Slug: "hello-world", Status: models.PostStatusPublished,
			PublishedAt: &now, CreatedAt: now.Add(-48 * time.Hour), UpdatedAt: now,
		},
	}

	out, err := Generate("https://blog.example.com/", posts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	xml := string(out)

	if !strings.HasPrefix(xml, "<?xml") {
		t.Error("missing XML header")
	}
	if !strings.Contains(xml, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Error("missing sitemap namespace")
	}
	if !strings.Contains(xml, "<loc>https://blog.example.com/</loc>") {
		t.Error("missing homepage entry")
	}
	if !strings.Contains(xml, "<loc>https://blog.example.com/post/hello-world</loc>") {
		t.Error("missing post entry")
	}
	if !strings.Contains(xml, "<changefreq>daily</changefreq>") {
		t.Error("homepage should be daily")
	}
	if !strings.Contains(xml, "<changefreq>monthly</changefreq>") {
		t.Error("posts should be monthly")
	}
	if !strings.Contains(xml, "<lastmod>"+now.Format("2006-01-02")+"</lastmod>") {
		t.Error("post lastmod should use the update time")
	}
}

func TestGenerateSkipsDrafts(t *testing.T) {
	now := time.Now()
	posts := []models.Post{
		{ID: uuid.New(), Slug: "visible", Status: models.PostStatusPublished, PublishedAt: &now},
		{ID: uuid.New(), Slug: "invisible", Status: models.PostStatusDraft},
	}

	out, err := Generate("https://blog.example.com", posts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(string(out), "invisible") {
		t.Error("draft slug leaked into the sitemap")
	}
	if !strings.Contains(string(out), "visible") {
		t.Error("published post missing")
	}
}

func TestGenerateEmpty(t *testing.T) {
	out, err := Generate("https://blog.example.com", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(out), "<loc>https://blog.example.com/</loc>") {
		t.Error("even an empty blog lists its homepage")
	}
}
