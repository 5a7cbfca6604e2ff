package cases

import "time"

// Case statuses.
const (
	StatusOpen     = "open"
	StatusClosed   = "closed"
	StatusArchived = "archived"
)

// Case is one investigation holding evidence and notes.
type Case struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CaseNumber  string    `json:"caseNumber,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ValidStatus reports whether s is a known case status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusClosed, StatusArchived:
		return true
	}
	return false
}
