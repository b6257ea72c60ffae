package sector

import (
	"errors"
	"time"

	"sectors-server/internal/entity"
)

// ErrNotFound is returned by every sector store when a sector does not exist.
var ErrNotFound = errors.New("sector not found")

// ErrLimitReached is returned when a user already has the maximum number of
// synced sectors.
var ErrLimitReached = errors.New("sector limit reached")

// Status tells which store a sector currently lives in.
type Status string

const (
	// StatusGenerated sectors are fresh generator output kept in the cache
	// until saved or expired.
	StatusGenerated Status = "generated"
	// StatusLocal sectors were saved without signing in.
	StatusLocal Status = "local"
	// StatusSynced sectors belong to a user.
	StatusSynced Status = "synced"
)

type Sector struct {
	ID        string            `json:"id"`
	UserID    *int              `json:"userId,omitempty"`
	Name      string            `json:"name"`
	Rows      int               `json:"rows"`
	Columns   int               `json:"columns"`
	Seed      int64             `json:"seed"`
	Entities  entity.Collection `json:"entities"`
	Status    Status            `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`

	// OwnerToken is the anonymous owner token of the browser that generated
	// or locally saved the sector. Never sent to clients.
	OwnerToken string `json:"-"`
}

// Owner identifies the caller of a sector operation. Token is the anonymous
// owner token every browser carries; UserID is set once signed in.
type Owner struct {
	UserID *int
	Token  string
}

// Summary is the list view of a sector.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	EntityCount int       `json:"entityCount"`
	Status      Status    `json:"status"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s Sector) Summary() Summary {
	return Summary{
		ID:          s.ID,
		Name:        s.Name,
		Rows:        s.Rows,
		Columns:     s.Columns,
		EntityCount: s.Entities.Count(),
		Status:      s.Status,
		UpdatedAt:   s.UpdatedAt,
	}
}

// SaveRequest is a sector as sent back by a client. Name and Entities
// replace the stored values when set.
type SaveRequest struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	Entities entity.Collection `json:"entities,omitempty"`
}

func (s Sector) owned(userID int) bool {
	return s.UserID != nil && *s.UserID == userID
}

// heldBy reports whether a generated or local sector belongs to the browser
// holding token.
func (s Sector) heldBy(token string) bool {
	return s.OwnerToken == token
}
