package domain

// Project is a floor-plan design session: the uploaded source image, the
// latest AI render, and its visibility state.
//
// IDs are caller-generated (the client uses millisecond timestamps) and
// are not validated for uniqueness by the store.
type Project struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	SourceImage   string `json:"sourceImage"`
	RenderedImage string `json:"renderedImage,omitempty"`
	Timestamp     int64  `json:"timestamp,omitempty"`

	// Client-side bookkeeping only; stripped before persistence.
	SourcePath   string `json:"sourcePath,omitempty"`
	RenderedPath string `json:"renderedPath,omitempty"`
	PublicPath   string `json:"publicPath,omitempty"`

	// Set only on public records.
	OwnerID  string  `json:"ownerId,omitempty"`
	SharedBy *string `json:"sharedBy,omitempty"`
	SharedAt string  `json:"sharedAt,omitempty"`

	// Derived at read time, true for records read from the public
	// namespace. Never persisted.
	IsPublic bool `json:"isPublic,omitempty"`

	UpdatedAt string `json:"updatedAt,omitempty"`
}

// SanitizeForPersistence returns a copy with all client-only and derived
// fields dropped. Applied at the store-write boundary regardless of what
// transient fields a given client version sends.
func (p Project) SanitizeForPersistence() Project {
	p.SourcePath = ""
	p.RenderedPath = ""
	p.PublicPath = ""
	p.IsPublic = false
	return p
}

// Visibility values accepted by save.
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// ClearResult reports how many records a bulk clear removed from each
// namespace.
type ClearResult struct {
	Cleared       int `json:"cleared"`
	ClearedPublic int `json:"clearedPublic"`
	ClearedUsers  int `json:"clearedUsers"`
}
