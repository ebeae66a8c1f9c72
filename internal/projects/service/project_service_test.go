package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomify-app/roomify-backend/internal/auth"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/projects/repository"
	redisstore "github.com/roomify-app/roomify-backend/internal/storage/redis"
)

// fakeResolver hosts anything under test.roomify.site, or fails every
// non-durable input when failing is set.
type fakeResolver struct {
	failing bool
}

func (f *fakeResolver) IsDurable(url string) bool {
	return strings.Contains(url, ".roomify.site")
}

func (f *fakeResolver) EnsureDurable(ctx context.Context, image, projectID, label string) (string, bool) {
	if image == "" {
		return "", false
	}
	if f.IsDurable(image) {
		return image, true
	}
	if f.failing {
		return "", false
	}
	return "https://test.roomify.site/projects/" + projectID + "/" + label + ".png", true
}

type fakeDirectory map[string]string

func (d fakeDirectory) DisplayName(ctx context.Context, uid string) (string, error) {
	if name, ok := d[uid]; ok {
		return name, nil
	}
	return "", errors.New("no such user")
}

func setupTestService(t *testing.T) (*ProjectService, *repository.Repository, *fakeResolver) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	store := redisstore.New(client)
	repo := repository.NewRepository(store, store)
	resolver := &fakeResolver{}
	svc := NewProjectService(repo, resolver, fakeDirectory{
		"owner-1": "Ann",
		"owner-2": "Ben",
	})
	return svc, repo, resolver
}

func TestSave_PrivateRoundTrip(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	user := auth.User{UID: "owner-1"}

	saved, err := svc.Save(ctx, user, domain.Project{
		ID:          "1700000000000",
		SourceImage: "data:image/png;base64,AAAA",
		SourcePath:  "/tmp/upload.png",
		Timestamp:   1700000000000,
	}, domain.VisibilityPrivate)
	require.NoError(t, err)

	// The inline payload was migrated to a durable URL and client-only
	// fields were stripped.
	assert.True(t, strings.Contains(saved.SourceImage, ".roomify.site"))
	assert.Empty(t, saved.SourcePath)
	assert.NotEmpty(t, saved.UpdatedAt)

	got, err := svc.Get(ctx, &user, "1700000000000", "user", "")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.Timestamp, got.Timestamp)
	assert.Equal(t, saved.SourceImage, got.SourceImage)
	assert.False(t, strings.HasPrefix(got.SourceImage, "data:"))
}

func TestSave_Validation(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	user := auth.User{UID: "owner-1"}

	_, err := svc.Save(ctx, auth.User{}, domain.Project{ID: "1", SourceImage: "x"}, domain.VisibilityPrivate)
	assert.Equal(t, domain.ErrNotAuthenticated, err)

	_, err = svc.Save(ctx, user, domain.Project{SourceImage: "x"}, domain.VisibilityPrivate)
	assert.Equal(t, domain.ErrProjectIDRequired, err)

	_, err = svc.Save(ctx, user, domain.Project{ID: "1"}, domain.VisibilityPrivate)
	assert.Equal(t, domain.ErrSourceImageRequired, err)
}

func TestSave_SourceDurabilityIsAHardGate(t *testing.T) {
	svc, repo, resolver := setupTestService(t)
	ctx := context.Background()
	user := auth.User{UID: "owner-1"}
	resolver.failing = true

	_, err := svc.Save(ctx, user, domain.Project{
		ID:          "1",
		SourceImage: "data:image/png;base64,AAAA",
	}, domain.VisibilityPrivate)
	assert.Equal(t, domain.ErrSourceNotDurable, err)

	// Nothing was written.
	_, err = repo.GetPrivate(ctx, "owner-1", "1")
	assert.Equal(t, domain.ErrProjectNotFound, err)
}

func TestSave_RenderedImageIsBestEffort(t *testing.T) {
	svc, _, resolver := setupTestService(t)
	ctx := context.Background()
	user := auth.User{UID: "owner-1"}
	resolver.failing = true

	saved, err := svc.Save(ctx, user, domain.Project{
		ID:            "1",
		SourceImage:   "https://test.roomify.site/projects/1/source.png",
		RenderedImage: "data:image/png;base64,BBBB",
	}, domain.VisibilityPrivate)
	require.NoError(t, err)

	// The non-durable render was skipped, not fatal.
	assert.Empty(t, saved.RenderedImage)
}

func TestShare_MovesToPublicNamespace(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	user := auth.User{UID: "owner-1"}

	project := domain.Project{
		ID:          "1700000000000",
		SourceImage: "data:image/png;base64,AAAA",
		Timestamp:   1700000000000,
	}
	_, err := svc.Save(ctx, user, project, domain.VisibilityPrivate)
	require.NoError(t, err)

	shared, err := svc.Save(ctx, user, project, domain.VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", shared.OwnerID)
	assert.NotEmpty(t, shared.SharedAt)
	require.NotNil(t, shared.SharedBy)
	assert.Equal(t, "Ann", *shared.SharedBy)

	// Public fetch succeeds, private fetch is now not-found: a move, not
	// a copy.
	got, err := svc.Get(ctx, &user, project.ID, "public", "owner-1")
	require.NoError(t, err)
	assert.True(t, got.IsPublic)
	assert.Equal(t, "owner-1", got.OwnerID)

	_, err = svc.Get(ctx, &user, project.ID, "user", "")
	assert.Equal(t, domain.ErrProjectNotFound, err)
}

func TestUnshare_ReversesShare(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	user := auth.User{UID: "owner-1"}

	project := domain.Project{
		ID:          "7",
		SourceImage: "data:image/png;base64,AAAA",
		Timestamp:   7,
	}
	_, err := svc.Save(ctx, user, project, domain.VisibilityPublic)
	require.NoError(t, err)

	_, err = svc.Save(ctx, user, project, domain.VisibilityPrivate)
	require.NoError(t, err)

	_, err = svc.Get(ctx, &user, "7", "public", "owner-1")
	assert.Equal(t, domain.ErrProjectNotFound, err)

	got, err := svc.Get(ctx, &user, "7", "user", "")
	require.NoError(t, err)
	assert.Equal(t, "7", got.ID)
}

func TestShare_RejectsForeignOwner(t *testing.T) {
	svc, repo, _ := setupTestService(t)
	ctx := context.Background()

	// A legacy public record at owner-1's key carrying a different
	// embedded owner.
	require.NoError(t, repo.SetPublic(ctx, "owner-1", domain.Project{
		ID:          "9",
		SourceImage: "https://test.roomify.site/projects/9/source.png",
		OwnerID:     "owner-2",
		Timestamp:   9,
	}))

	user := auth.User{UID: "owner-1"}
	project := domain.Project{ID: "9", SourceImage: "data:image/png;base64,AAAA"}

	_, err := svc.Save(ctx, user, project, domain.VisibilityPublic)
	assert.Equal(t, domain.ErrNotOwner, err)

	// Both namespaces are untouched.
	existing, err := repo.GetPublic(ctx, "owner-1", "9")
	require.NoError(t, err)
	assert.Equal(t, "owner-2", existing.OwnerID)
	_, err = repo.GetPrivate(ctx, "owner-1", "9")
	assert.Equal(t, domain.ErrProjectNotFound, err)

	// Unshare is rejected the same way, before any mutation.
	_, err = svc.Save(ctx, user, project, domain.VisibilityPrivate)
	assert.Equal(t, domain.ErrNotOwner, err)
	_, err = repo.GetPrivate(ctx, "owner-1", "9")
	assert.Equal(t, domain.ErrProjectNotFound, err)
}

func TestShare_IsIdempotentForOwner(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	user := auth.User{UID: "owner-1"}

	project := domain.Project{ID: "3", SourceImage: "data:image/png;base64,AAAA", Timestamp: 3}

	first, err := svc.Save(ctx, user, project, domain.VisibilityPublic)
	require.NoError(t, err)

	project.Name = "Renamed"
	second, err := svc.Save(ctx, user, project, domain.VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, first.OwnerID, second.OwnerID)
	assert.Equal(t, "Renamed", second.Name)

	got, err := svc.Get(ctx, &user, "3", "public", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestGet_PublicWithoutOwnerUsesReverseScan(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	user := auth.User{UID: "owner-2"}

	_, err := svc.Save(ctx, user, domain.Project{
		ID:          "55",
		SourceImage: "data:image/png;base64,AAAA",
	}, domain.VisibilityPublic)
	require.NoError(t, err)

	// No ownerId supplied: the ownerless reverse lookup finds it.
	got, err := svc.Get(ctx, nil, "55", "public", "")
	require.NoError(t, err)
	assert.Equal(t, "owner-2", got.OwnerID)
	assert.True(t, got.IsPublic)
}

func TestGet_Validation(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, nil, "", "user", "")
	assert.Equal(t, domain.ErrProjectIDRequired, err)

	_, err = svc.Get(ctx, nil, "1", "user", "")
	assert.Equal(t, domain.ErrNotAuthenticated, err)

	user := auth.User{UID: "owner-1"}
	_, err = svc.Get(ctx, &user, "missing", "user", "")
	assert.Equal(t, domain.ErrProjectNotFound, err)
}

func TestClear_ReportsCounts(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	owner1 := auth.User{UID: "owner-1"}
	owner2 := auth.User{UID: "owner-2"}

	_, err := svc.Save(ctx, owner1, domain.Project{ID: "1", SourceImage: "data:image/png;base64,AAAA"}, domain.VisibilityPrivate)
	require.NoError(t, err)
	_, err = svc.Save(ctx, owner1, domain.Project{ID: "2", SourceImage: "data:image/png;base64,AAAA"}, domain.VisibilityPrivate)
	require.NoError(t, err)
	_, err = svc.Save(ctx, owner2, domain.Project{ID: "3", SourceImage: "data:image/png;base64,AAAA"}, domain.VisibilityPublic)
	require.NoError(t, err)

	result, err := svc.Clear(ctx, owner1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Cleared)
	assert.Equal(t, 1, result.ClearedPublic)
	assert.Equal(t, 1, result.ClearedUsers)
}
