package notes

import (
	"time"

	"github.com/google/uuid"
)

// Note maps to the member_note table. Notes are private to the member who
// wrote them.
type Note struct {
	ID        uuid.UUID `db:"id" json:"id"`
	MemberID  uuid.UUID `db:"member_id" json:"member_id"`
	Title     *string   `db:"title" json:"title,omitempty"`
	Body      string    `db:"body" json:"body"`
	Pinned    bool      `db:"pinned" json:"pinned"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
