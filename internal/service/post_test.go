package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/errs"
	"inkwell/internal/models"
	"inkwell/internal/slug"
)

func TestPostPublishLifecycle(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	title := "Lifecycle " + uuid.NewString()[:8]
	env.cleanPost(t, slug.Generate(title))

	// Draft first: no published_at.
	created, err := env.posts.Create(ctx, PostInput{
		Title:    title,
		Body:     "<p>draft body</p>",
		Status:   models.PostStatusDraft,
		AuthorID: env.authorID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PublishedAt != nil {
		t.Error("draft should have nil published_at")
	}

	// Publish: published_at gets stamped.
	in := PostInput{
		Title:    title,
		Body:     "<p>draft body</p>",
		Status:   models.PostStatusPublished,
		AuthorID: env.authorID,
	}
	published, err := env.posts.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("Update publish: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("publish must set published_at")
	}
	firstPublish := *published.PublishedAt

	// Publishing again is a no-op on the timestamp.
	again, err := env.posts.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("Update republish: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(firstPublish) {
		t.Error("republish must not move published_at")
	}

	// Back to draft: invisible publicly, timestamp retained.
	in.Status = models.PostStatusDraft
	reverted, err := env.posts.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("Update unpublish: %v", err)
	}
	if reverted.PublishedAt == nil || !reverted.PublishedAt.Equal(firstPublish) {
		t.Error("unpublish must retain published_at")
	}

	// Publishing once more still keeps the original timestamp.
	in.Status = models.PostStatusPublished
	republished, err := env.posts.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("Update republish after draft: %v", err)
	}
	if republished.PublishedAt == nil || !republished.PublishedAt.Equal(firstPublish) {
		t.Error("republish after draft must keep the original published_at")
	}
}

func TestDraftInvisibleOnPublicPath(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	title := "Hidden Draft " + uuid.NewString()[:8]
	postSlug := slug.Generate(title)
	env.cleanPost(t, postSlug)

	if _, err := env.posts.Create(ctx, PostInput{
		Title:    title,
		Body:     "<p>secret</p>",
		Status:   models.PostStatusDraft,
		AuthorID: env.authorID,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := env.posts.GetPublishedBySlug(ctx, postSlug)
	if !errs.IsNotFound(err) {
		t.Errorf("public lookup of a draft: got %v, want NotFoundError", err)
	}

	// The preview path sees it.
	preview, err := env.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if preview.Status != models.PostStatusDraft {
		t.Errorf("status: got %q, want draft", preview.Status)
	}
}

func TestDefaultCategoryFallback(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	title := "Orphan " + uuid.NewString()[:8]
	env.cleanPost(t, slug.Generate(title))

	// Nil category: falls back to Uncategorized.
	created, err := env.posts.Create(ctx, PostInput{
		Title:    title,
		Body:     "<p>x</p>",
		Status:   models.PostStatusDraft,
		AuthorID: env.authorID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	def, err := env.categories.EnsureDefault(ctx)
	if err != nil {
		t.Fatalf("EnsureDefault: %v", err)
	}
	if created.CategoryID != def.ID {
		t.Errorf("category: got %s, want default %s", created.CategoryID, def.ID)
	}

	// A dangling category reference also falls back.
	title2 := "Orphan Dangling " + uuid.NewString()[:8]
	env.cleanPost(t, slug.Generate(title2))
	ghost := uuid.New()
	created2, err := env.posts.Create(ctx, PostInput{
		Title:      title2,
		Body:       "<p>x</p>",
		Status:     models.PostStatusDraft,
		CategoryID: &ghost,
		AuthorID:   env.authorID,
	})
	if err != nil {
		t.Fatalf("Create with dangling category: %v", err)
	}
	if created2.CategoryID != def.ID {
		t.Errorf("dangling category: got %s, want default %s", created2.CategoryID, def.ID)
	}
}

func TestDuplicateTitleGetsSuffixedSlug(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	title := "Same Title " + uuid.NewString()[:8]
	base := slug.Generate(title)
	env.cleanPost(t, base)

	first, err := env.posts.Create(ctx, PostInput{
		Title: title, Body: "<p>a</p>", Status: models.PostStatusDraft, AuthorID: env.authorID,
	})
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}
	second, err := env.posts.Create(ctx, PostInput{
		Title: title, Body: "<p>b</p>", Status: models.PostStatusDraft, AuthorID: env.authorID,
	})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	if first.Slug != base {
		t.Errorf("first slug: got %q, want %q", first.Slug, base)
	}
	if second.Slug == first.Slug {
		t.Error("second post must not share the slug")
	}
	if !strings.HasPrefix(second.Slug, base+"-") {
		t.Errorf("second slug: got %q, want %q with numeric suffix", second.Slug, base)
	}
}

func TestConcurrentCreatesResolveSlugCollision(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	title := "Race Title " + uuid.NewString()[:8]
	base := slug.Generate(title)
	env.cleanPost(t, base)

	// Two writers race on the same title. The loser hits the unique
	// violation once the winner commits, then retries with a suffix.
	posts := make(chan *models.Post, 2)
	errc := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := env.posts.Create(ctx, PostInput{
				Title:    title,
				Body:     "<p>racer</p>",
				Status:   models.PostStatusDraft,
				AuthorID: env.authorID,
			})
			if err != nil {
				errc <- err
				return
			}
			posts <- p
		}()
	}
	wg.Wait()
	close(posts)
	close(errc)

	for err := range errc {
		t.Fatalf("concurrent Create: %v", err)
	}

	seen := make(map[string]bool)
	for p := range posts {
		if seen[p.Slug] {
			t.Fatalf("slug %q assigned to both posts", p.Slug)
		}
		seen[p.Slug] = true
		if p.Slug != base && !strings.HasPrefix(p.Slug, base+"-") {
			t.Errorf("slug: got %q, want %q or a suffixed variant", p.Slug, base)
		}
	}
	if len(seen) != 2 {
		t.Fatalf("distinct posts created: got %d, want 2", len(seen))
	}
}

func TestBodySanitizedOnWrite(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	title := "Sanitized " + uuid.NewString()[:8]
	env.cleanPost(t, slug.Generate(title))

	created, err := env.posts.Create(ctx, PostInput{
		Title:    title,
		Body:     `<p>fine</p><script>alert(1)</script>`,
		Status:   models.PostStatusDraft,
		AuthorID: env.authorID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if strings.Contains(created.Body, "<script") {
		t.Errorf("stored body still contains script: %q", created.Body)
	}
	if !strings.Contains(created.Body, "<p>fine</p>") {
		t.Errorf("allowed markup was stripped: %q", created.Body)
	}
}

func TestPublishInvalidatesListCache(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	title := "Freshness " + uuid.NewString()[:8]
	postSlug := slug.Generate(title)
	env.cleanPost(t, postSlug)

	created, err := env.posts.Create(ctx, PostInput{
		Title: title, Body: "<p>x</p>", Status: models.PostStatusDraft, AuthorID: env.authorID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Warm the list cache. The draft is not in it.
	page, err := env.posts.ListPublished(ctx, 1, nil)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	for _, p := range page.Posts {
		if p.Slug == postSlug {
			t.Fatal("draft leaked into the published listing")
		}
	}
	if _, ok := env.cache.Get(ctx, cache.PublishedListKey(1, nil)); !ok {
		t.Fatal("expected page 1 to be cached after listing")
	}

	// Publish. The cached page must be gone and the fresh read must
	// include the post.
	if _, err := env.posts.Update(ctx, created.ID, PostInput{
		Title: title, Body: "<p>x</p>", Status: models.PostStatusPublished, AuthorID: env.authorID,
	}); err != nil {
		t.Fatalf("Update publish: %v", err)
	}
	if _, ok := env.cache.Get(ctx, cache.PublishedListKey(1, nil)); ok {
		t.Error("publish must invalidate cached list pages")
	}

	page, err = env.posts.ListPublished(ctx, 1, nil)
	if err != nil {
		t.Fatalf("ListPublished after publish: %v", err)
	}
	var found bool
	for _, p := range page.Posts {
		if p.Slug == postSlug {
			found = true
		}
	}
	if !found {
		t.Error("published post missing from the fresh listing")
	}
}

func TestContentOnlyUpdateKeepsListCache(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	title := "Body Edit " + uuid.NewString()[:8]
	postSlug := slug.Generate(title)
	env.cleanPost(t, postSlug)

	created, err := env.posts.Create(ctx, PostInput{
		Title: title, Body: "<p>v1</p>", Status: models.PostStatusPublished, AuthorID: env.authorID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Warm list and single-post caches.
	if _, err := env.posts.ListPublished(ctx, 1, nil); err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if _, err := env.posts.GetPublishedBySlug(ctx, postSlug); err != nil {
		t.Fatalf("GetPublishedBySlug: %v", err)
	}

	// Edit the body without touching status or category.
	if _, err := env.posts.Update(ctx, created.ID, PostInput{
		Title: title, Body: "<p>v2</p>", Status: models.PostStatusPublished, AuthorID: env.authorID,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Single-post entry is dropped, list page is allowed to age out.
	if _, ok := env.cache.Get(ctx, cache.PostSlugKey(postSlug)); ok {
		t.Error("body edit must invalidate the single-post entry")
	}
	if _, ok := env.cache.Get(ctx, cache.PublishedListKey(1, nil)); !ok {
		t.Error("body edit should leave list pages to their TTL")
	}

	// The public read serves the new body.
	p, err := env.posts.GetPublishedBySlug(ctx, postSlug)
	if err != nil {
		t.Fatalf("GetPublishedBySlug after edit: %v", err)
	}
	if !strings.Contains(p.Body, "v2") {
		t.Errorf("stale body served: %q", p.Body)
	}
}

func TestDeleteInvalidatesPostAndListing(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	title := "Doomed " + uuid.NewString()[:8]
	postSlug := slug.Generate(title)
	env.cleanPost(t, postSlug)

	created, err := env.posts.Create(ctx, PostInput{
		Title: title, Body: "<p>x</p>", Status: models.PostStatusPublished, AuthorID: env.authorID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.posts.GetPublishedBySlug(ctx, postSlug); err != nil {
		t.Fatalf("GetPublishedBySlug: %v", err)
	}

	if err := env.posts.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err = env.posts.GetPublishedBySlug(ctx, postSlug)
	if !errs.IsNotFound(err) {
		t.Errorf("after delete: got %v, want NotFoundError", err)
	}
}

func TestPostValidation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.posts.Create(ctx, PostInput{
		Title: "   ", Body: "<p>x</p>", Status: models.PostStatusDraft, AuthorID: env.authorID,
	})
	if !errs.IsValidation(err) {
		t.Errorf("empty title: got %v, want ValidationError", err)
	}

	_, err = env.posts.Create(ctx, PostInput{
		Title: "Bad Status " + uuid.NewString()[:8], Body: "x",
		Status: models.PostStatus("archived"), AuthorID: env.authorID,
	})
	if !errs.IsValidation(err) {
		t.Errorf("bad status: got %v, want ValidationError", err)
	}

	_, err = env.posts.Update(ctx, uuid.New(), PostInput{
		Title: "Ghost", Body: "x", Status: models.PostStatusDraft, AuthorID: env.authorID,
	})
	if !errs.IsNotFound(err) {
		t.Errorf("update missing post: got %v, want NotFoundError", err)
	}
}

func TestStatsReflectMutations(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	title := "Stats " + uuid.NewString()[:8]
	env.cleanPost(t, slug.Generate(title))

	before, err := env.stats.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	created, err := env.posts.Create(ctx, PostInput{
		Title: title, Body: "<p>x</p>", Status: models.PostStatusDraft, AuthorID: env.authorID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	after, err := env.stats.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard after create: %v", err)
	}
	if after.TotalPosts != before.TotalPosts+1 {
		t.Errorf("total posts: got %d, want %d", after.TotalPosts, before.TotalPosts+1)
	}
	if after.DraftPosts != before.DraftPosts+1 {
		t.Errorf("draft posts: got %d, want %d", after.DraftPosts, before.DraftPosts+1)
	}

	if _, err := env.posts.Update(ctx, created.ID, PostInput{
		Title: title, Body: "<p>x</p>", Status: models.PostStatusPublished, AuthorID: env.authorID,
	}); err != nil {
		t.Fatalf("Update publish: %v", err)
	}

	published, err := env.stats.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard after publish: %v", err)
	}
	if published.PublishedPosts != before.PublishedPosts+1 {
		t.Errorf("published posts: got %d, want %d", published.PublishedPosts, before.PublishedPosts+1)
	}
	if published.DraftPosts != before.DraftPosts {
		t.Errorf("draft posts after publish: got %d, want %d", published.DraftPosts, before.DraftPosts)
	}
}
