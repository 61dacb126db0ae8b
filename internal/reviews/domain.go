package reviews

import "time"

// Review is a user's rating of a book. OwnerID is set at creation and
// never reassigned.
type Review struct {
	ID        int64
	Title     string
	Content   string
	Rating    int
	BookID    int64
	OwnerID   int64
	CreatedAt time.Time
}
