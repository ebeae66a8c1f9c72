package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/roomify-app/roomify-backend/internal/auth"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/projects/repository"
)

// ImageResolver abstracts the image host resolver. EnsureDurable reports
// failure via its second result; IsDurable recognizes already-hosted
// URLs.
type ImageResolver interface {
	EnsureDurable(ctx context.Context, image, projectID, label string) (string, bool)
	IsDurable(url string) bool
}

// ProjectService orchestrates saves, visibility transitions between the
// private and public namespaces, fetches, listings, and bulk clears.
//
// A visibility transition is a move, not a copy: the write into the
// target namespace and the delete from the source namespace are two
// separate store operations. When the delete fails after the write
// succeeded the record is transiently visible in both namespaces; the
// listing merge resolves this at read time (the public copy wins), and
// the reconciler heals it out of band.
type ProjectService struct {
	repo      *repository.Repository
	resolver  ImageResolver
	directory auth.Directory
}

// NewProjectService creates the service. directory may be nil; display
// name resolution then relies on token claims alone.
func NewProjectService(repo *repository.Repository, resolver ImageResolver, directory auth.Directory) *ProjectService {
	return &ProjectService{repo: repo, resolver: resolver, directory: directory}
}

// Save validates, sanitizes, and persists a project with the requested
// visibility, running the full transition when the namespace changes.
func (s *ProjectService) Save(ctx context.Context, user auth.User, project domain.Project, visibility string) (*domain.Project, error) {
	if user.UID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if project.ID == "" {
		return nil, domain.ErrProjectIDRequired
	}
	if project.SourceImage == "" {
		return nil, domain.ErrSourceImageRequired
	}

	payload := project.SanitizeForPersistence()
	payload.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	// Source image durability is a hard gate: nothing is written when it
	// cannot be hosted.
	src, ok := s.resolver.EnsureDurable(ctx, payload.SourceImage, payload.ID, "source")
	if !ok {
		return nil, domain.ErrSourceNotDurable
	}
	payload.SourceImage = src

	// Rendered image durability is best-effort: on failure the field is
	// skipped rather than aborting the save.
	if payload.RenderedImage != "" {
		if rendered, ok := s.resolver.EnsureDurable(ctx, payload.RenderedImage, payload.ID, "rendered"); ok {
			payload.RenderedImage = rendered
		} else {
			payload.RenderedImage = ""
		}
	}

	if visibility == domain.VisibilityPublic {
		return s.share(ctx, user, payload)
	}
	return s.unshare(ctx, user, payload)
}

// share moves a project into the public namespace. Step order matters:
// ownership is validated before any write, the public write happens
// before the private delete.
func (s *ProjectService) share(ctx context.Context, user auth.User, payload domain.Project) (*domain.Project, error) {
	existing, err := s.repo.GetPublic(ctx, user.UID, payload.ID)
	if err != nil && err != domain.ErrProjectNotFound {
		return nil, fmt.Errorf("failed to check existing public record: %w", err)
	}
	if existing != nil && existing.OwnerID != "" && existing.OwnerID != user.UID {
		return nil, domain.ErrNotOwner
	}

	name := s.resolveDisplayName(ctx, user)
	if name != "" {
		if err := s.repo.SetOwnerName(ctx, user.UID, name); err != nil {
			// Best-effort owner map write.
			log.Printf("projects: failed to cache owner name for %s: %v", user.UID, err)
		}
	}

	record := payload
	record.OwnerID = user.UID
	if name != "" {
		record.SharedBy = &name
	}
	record.SharedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.repo.SetPublic(ctx, user.UID, record); err != nil {
		return nil, fmt.Errorf("failed to write public record: %w", err)
	}
	if err := s.repo.DeletePrivate(ctx, user.UID, payload.ID); err != nil {
		// Accepted inconsistency window; resolved at read time.
		log.Printf("projects: failed to delete private copy of %s after share: %v", payload.ID, err)
	}
	return &record, nil
}

// unshare writes the record into the caller's private namespace and
// removes the public copy. A public record owned by someone else blocks
// the whole transition before any mutation.
func (s *ProjectService) unshare(ctx context.Context, user auth.User, payload domain.Project) (*domain.Project, error) {
	existing, err := s.repo.GetPublic(ctx, user.UID, payload.ID)
	if err != nil && err != domain.ErrProjectNotFound {
		return nil, fmt.Errorf("failed to check existing public record: %w", err)
	}
	if existing != nil && existing.OwnerID != "" && existing.OwnerID != user.UID {
		return nil, domain.ErrNotOwner
	}

	if err := s.repo.SetPrivate(ctx, user.UID, payload); err != nil {
		return nil, fmt.Errorf("failed to write private record: %w", err)
	}
	if existing != nil {
		if err := s.repo.DeletePublic(ctx, user.UID, payload.ID); err != nil {
			// Accepted inconsistency window; resolved at read time.
			log.Printf("projects: failed to delete public copy of %s after unshare: %v", payload.ID, err)
		}
	}
	return &payload, nil
}

// Get fetches a single project. scope "public" needs no identity; scope
// "user" requires one. A missing project is a normal not-found outcome.
func (s *ProjectService) Get(ctx context.Context, user *auth.User, id, scope, ownerID string) (*domain.Project, error) {
	if id == "" {
		return nil, domain.ErrProjectIDRequired
	}

	if scope == "public" {
		key := ""
		if ownerID != "" {
			key = repository.PublicKey(ownerID, id)
		} else {
			// Legacy/ownerless reference: best-effort reverse scan.
			var err error
			key, err = s.repo.FindPublicKeyByProjectID(ctx, id)
			if err != nil {
				return nil, err
			}
		}
		project, err := s.repo.GetPublicByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		project.IsPublic = true
		return project, nil
	}

	if user == nil || user.UID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.repo.GetPrivate(ctx, user.UID, id)
}

// Clear bulk-deletes the caller's private projects plus all public
// projects and the owner display-name cache, reporting per-namespace
// counts.
func (s *ProjectService) Clear(ctx context.Context, user auth.User) (*domain.ClearResult, error) {
	if user.UID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	cleared, err := s.repo.ClearPrivate(ctx, user.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear private projects: %w", err)
	}
	clearedPublic, err := s.repo.ClearPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear public projects: %w", err)
	}
	clearedUsers, err := s.repo.ClearOwnerNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear owner cache: %w", err)
	}
	return &domain.ClearResult{
		Cleared:       cleared,
		ClearedPublic: clearedPublic,
		ClearedUsers:  clearedUsers,
	}, nil
}

func (s *ProjectService) resolveDisplayName(ctx context.Context, user auth.User) string {
	if user.Name != "" {
		return user.Name
	}
	if s.directory == nil {
		return ""
	}
	name, err := s.directory.DisplayName(ctx, user.UID)
	if err != nil {
		// Best-effort lookup.
		log.Printf("projects: failed to resolve display name for %s: %v", user.UID, err)
		return ""
	}
	return name
}
