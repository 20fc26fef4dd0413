package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactRow is one spreadsheet row conformed to the fixed contact schema.
// Fields are pointers so that an absent cell stays distinguishable from an
// empty string.
type ContactRow struct {
	ID        uuid.UUID `json:"id"`
	FileID    uuid.UUID `json:"file_id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	CreatedAt time.Time `json:"created_at"`
}

// HasData reports whether at least one of the four contact fields is present.
// Rows without any data are never persisted.
func (r ContactRow) HasData() bool {
	return r.Name != nil || r.Email != nil || r.Phone != nil || r.Company != nil
}
