package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/roomify-app/roomify-backend/internal/auth"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

// List merges the caller's private projects with all public projects
// into one deduplicated view, newest first.
//
// Merge keys: private records by id alone, public records by
// (ownerId, id). A caller's own previously-shared project therefore
// appears once, via its public identity, even while a stale private copy
// lingers from a half-finished transition.
func (s *ProjectService) List(ctx context.Context, user auth.User) ([]domain.Project, error) {
	if user.UID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	private, err := s.repo.ListPrivate(ctx, user.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to list private projects: %w", err)
	}

	// Public listing is skipped, not failed, when the deployment store
	// is unavailable.
	public, err := s.repo.ListPublic(ctx)
	if err != nil {
		log.Printf("projects: skipping public listing: %v", err)
		public = nil
	}

	merged := make(map[string]domain.Project, len(private)+len(public))
	order := make([]string, 0, len(private)+len(public))

	for _, p := range private {
		key := "user:" + p.ID
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = p
	}

	for _, p := range public {
		ownerID := p.OwnerID
		if ownerID == "" {
			ownerID = "unknown"
		}
		p.IsPublic = true
		key := "public:" + ownerID + ":" + p.ID
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = p

		// The caller's own shared copy supersedes any private leftover
		// with the same id.
		if p.OwnerID == user.UID {
			delete(merged, "user:"+p.ID)
		}
	}

	projects := make([]domain.Project, 0, len(merged))
	for _, key := range order {
		if p, ok := merged[key]; ok {
			projects = append(projects, p)
		}
	}

	s.annotateSharedBy(ctx, projects)

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Timestamp > projects[j].Timestamp
	})
	return projects, nil
}

// annotateSharedBy attaches cached owner display names to public
// entries. Unresolved owners keep whatever sharedBy the record already
// carries, or none.
func (s *ProjectService) annotateSharedBy(ctx context.Context, projects []domain.Project) {
	ownerSet := make(map[string]struct{})
	for _, p := range projects {
		if p.IsPublic && p.OwnerID != "" {
			ownerSet[p.OwnerID] = struct{}{}
		}
	}
	if len(ownerSet) == 0 {
		return
	}

	ownerIDs := make([]string, 0, len(ownerSet))
	for id := range ownerSet {
		ownerIDs = append(ownerIDs, id)
	}
	names := s.repo.GetOwnerNames(ctx, ownerIDs)

	for i := range projects {
		if !projects[i].IsPublic || projects[i].OwnerID == "" {
			continue
		}
		if name, ok := names[projects[i].OwnerID]; ok {
			projects[i].SharedBy = &name
		}
	}
}
