package branch

import (
	"errors"
	"strings"
	"time"
)

// ErrNameRequired is returned when a branch has no name.
var ErrNameRequired = errors.New("branch name cannot be empty")

// Branch is a studio location. Older records carried only a description and
// others only address and phone; both shapes load into this one schema.
type Branch struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Address     string     `json:"address,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Validate checks if the Branch has valid data.
// PRE: Branch struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (b *Branch) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrNameRequired
	}
	if len(b.Name) > 100 {
		return errors.New("branch name cannot exceed 100 characters")
	}
	return nil
}
