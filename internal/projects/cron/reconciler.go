package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/projects/repository"
)

// Reconciler periodically heals the non-atomic share window: a project
// whose public write succeeded but whose private delete failed lingers
// in both namespaces. The public copy wins, so the stale private copy is
// removed.
type Reconciler struct {
	repo *repository.Repository
}

func NewReconciler(repo *repository.Repository) *Reconciler {
	return &Reconciler{repo: repo}
}

// Start initializes cron tasks
func (r *Reconciler) Start() {
	c := cron.New(cron.WithSeconds())

	// every 5 minutes
	_, err := c.AddFunc("0 */5 * * * *", func() {
		r.Sweep(context.Background())
	})

	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Namespace reconciler started (sweeping every 5 minutes)")
	c.Start()
}

// Sweep runs one reconciliation pass and reports how many stale private
// copies it removed.
func (r *Reconciler) Sweep(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	public, err := r.repo.ListPublic(ctx)
	if err != nil {
		log.Printf("Reconciler sweep failed to list public projects: %v", err)
		return 0
	}

	removed := 0
	for _, p := range public {
		if p.OwnerID == "" || p.ID == "" {
			continue
		}
		if _, err := r.repo.GetPrivate(ctx, p.OwnerID, p.ID); err != nil {
			if err != domain.ErrProjectNotFound {
				log.Printf("Reconciler failed to check private copy of %s: %v", p.ID, err)
			}
			continue
		}
		if err := r.repo.DeletePrivate(ctx, p.OwnerID, p.ID); err != nil {
			log.Printf("Reconciler failed to remove stale private copy of %s: %v", p.ID, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("Reconciler removed %d stale private copies at %s", removed, time.Now().Format(time.RFC1123))
	}
	return removed
}
