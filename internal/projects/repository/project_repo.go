package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/storage/kv"
)

const (
	projectKeyPrefix = "roomify_project_" // private records: roomify_project_{id} (user-scoped store)
	publicKeyPrefix  = "roomify_public_"  // public records: roomify_public_{ownerId}_{id} (deployment store)
	userKeyPrefix    = "roomify_user_"    // owner display-name cache: roomify_user_{ownerId}
)

// ownerRecord is the cached display name for a sharing user.
type ownerRecord struct {
	Username string `json:"username"`
}

// Repository handles key-value operations for projects across the
// private (per-user) and public (deployment-wide) namespaces, plus the
// owner display-name cache.
type Repository struct {
	deployment kv.Store
	users      kv.Scoper
}

// NewRepository creates a Repository over a deployment-wide store and a
// scoper that yields per-user stores.
func NewRepository(deployment kv.Store, users kv.Scoper) *Repository {
	return &Repository{deployment: deployment, users: users}
}

// PublicKey builds the deployment-store key for a shared project.
func PublicKey(ownerID, projectID string) string {
	return fmt.Sprintf("%s%s_%s", publicKeyPrefix, ownerID, projectID)
}

func privateKey(projectID string) string {
	return projectKeyPrefix + projectID
}

func ownerKey(ownerID string) string {
	return userKeyPrefix + ownerID
}

func (r *Repository) GetPrivate(ctx context.Context, uid, projectID string) (*domain.Project, error) {
	return getProject(ctx, r.users.ForUser(uid), privateKey(projectID))
}

func (r *Repository) SetPrivate(ctx context.Context, uid string, p domain.Project) error {
	return setProject(ctx, r.users.ForUser(uid), privateKey(p.ID), p)
}

func (r *Repository) DeletePrivate(ctx context.Context, uid, projectID string) error {
	return r.users.ForUser(uid).Delete(ctx, privateKey(projectID))
}

// ListPrivate returns every private project owned by uid.
func (r *Repository) ListPrivate(ctx context.Context, uid string) ([]domain.Project, error) {
	return listProjects(ctx, r.users.ForUser(uid), projectKeyPrefix)
}

func (r *Repository) GetPublic(ctx context.Context, ownerID, projectID string) (*domain.Project, error) {
	return getProject(ctx, r.deployment, PublicKey(ownerID, projectID))
}

// GetPublicByKey fetches a public record by its full store key, as
// returned by FindPublicKeyByProjectID.
func (r *Repository) GetPublicByKey(ctx context.Context, key string) (*domain.Project, error) {
	return getProject(ctx, r.deployment, key)
}

func (r *Repository) SetPublic(ctx context.Context, ownerID string, p domain.Project) error {
	return setProject(ctx, r.deployment, PublicKey(ownerID, p.ID), p)
}

func (r *Repository) DeletePublic(ctx context.Context, ownerID, projectID string) error {
	return r.deployment.Delete(ctx, PublicKey(ownerID, projectID))
}

// ListPublic returns every shared project in the deployment.
func (r *Repository) ListPublic(ctx context.Context) ([]domain.Project, error) {
	return listProjects(ctx, r.deployment, publicKeyPrefix)
}

// FindPublicKeyByProjectID scans all public entries and returns the key
// of the first record whose id matches. Best-effort reverse lookup for
// ownerless references; O(n) in the number of public projects, which is
// acceptable at this scale.
func (r *Repository) FindPublicKeyByProjectID(ctx context.Context, projectID string) (string, error) {
	entries, err := r.deployment.ListByPrefix(ctx, publicKeyPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to scan public projects: %w", err)
	}
	for _, e := range entries {
		var p domain.Project
		if err := json.Unmarshal(e.Value, &p); err != nil {
			continue
		}
		if p.ID == projectID {
			return e.Key, nil
		}
	}
	return "", domain.ErrProjectNotFound
}

// GetOwnerName resolves a cached display name for an owner. Returns
// kv.ErrNotFound when no record exists.
func (r *Repository) GetOwnerName(ctx context.Context, ownerID string) (string, error) {
	data, err := r.deployment.Get(ctx, ownerKey(ownerID))
	if err != nil {
		return "", err
	}
	var rec ownerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("failed to unmarshal owner record: %w", err)
	}
	return rec.Username, nil
}

// GetOwnerNames resolves display names for a set of owners in parallel
// and joins the results. Owners that cannot be resolved are simply
// absent from the returned map, never an error.
func (r *Repository) GetOwnerNames(ctx context.Context, ownerIDs []string) map[string]string {
	names := make(map[string]string, len(ownerIDs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, ownerID := range ownerIDs {
		wg.Add(1)
		go func(ownerID string) {
			defer wg.Done()
			name, err := r.GetOwnerName(ctx, ownerID)
			if err != nil || name == "" {
				return
			}
			mu.Lock()
			names[ownerID] = name
			mu.Unlock()
		}(ownerID)
	}
	wg.Wait()
	return names
}

func (r *Repository) SetOwnerName(ctx context.Context, ownerID, username string) error {
	data, err := json.Marshal(ownerRecord{Username: username})
	if err != nil {
		return fmt.Errorf("failed to marshal owner record: %w", err)
	}
	return r.deployment.Set(ctx, ownerKey(ownerID), data)
}

// ClearPrivate deletes all private projects for uid and reports how many
// were removed.
func (r *Repository) ClearPrivate(ctx context.Context, uid string) (int, error) {
	return deleteByPrefix(ctx, r.users.ForUser(uid), projectKeyPrefix)
}

// ClearPublic deletes all public projects in the deployment.
func (r *Repository) ClearPublic(ctx context.Context) (int, error) {
	return deleteByPrefix(ctx, r.deployment, publicKeyPrefix)
}

// ClearOwnerNames drops the whole owner display-name cache.
func (r *Repository) ClearOwnerNames(ctx context.Context) (int, error) {
	return deleteByPrefix(ctx, r.deployment, userKeyPrefix)
}

func getProject(ctx context.Context, store kv.Store, key string) (*domain.Project, error) {
	data, err := store.Get(ctx, key)
	if err == kv.ErrNotFound {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	var p domain.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return &p, nil
}

func setProject(ctx context.Context, store kv.Store, key string, p domain.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to set project: %w", err)
	}
	return nil
}

func listProjects(ctx context.Context, store kv.Store, prefix string) ([]domain.Project, error) {
	entries, err := store.ListByPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	projects := make([]domain.Project, 0, len(entries))
	for _, e := range entries {
		var p domain.Project
		if err := json.Unmarshal(e.Value, &p); err != nil {
			// Skip records that are not project documents.
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func deleteByPrefix(ctx context.Context, store kv.Store, prefix string) (int, error) {
	entries, err := store.ListByPrefix(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list keys for delete: %w", err)
	}
	deleted := 0
	for _, e := range entries {
		if err := store.Delete(ctx, e.Key); err != nil {
			return deleted, fmt.Errorf("failed to delete key %q: %w", e.Key, err)
		}
		deleted++
	}
	return deleted, nil
}
