package books

import "time"

// Book is a catalog entry owned by the user who created it. OwnerID is
// set at creation and never reassigned.
type Book struct {
	ID        int64
	Title     string
	Author    string
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is the listing projection including the owner's username.
type Summary struct {
	ID            int64
	Title         string
	Author        string
	OwnerUsername string
}

// ReviewEntry is a review as embedded in a book detail.
type ReviewEntry struct {
	ID               int64
	Title            string
	Content          string
	Rating           int
	ReviewerUsername string
}

// Detail is a single book with its owner and associated reviews.
type Detail struct {
	Book
	OwnerUsername string
	Reviews       []ReviewEntry
}

// UpdateFields carries the optional fields of a partial update. A nil
// pointer leaves the column untouched.
type UpdateFields struct {
	Title  *string
	Author *string
}

// Empty reports whether the update would change nothing.
func (f UpdateFields) Empty() bool {
	return f.Title == nil && f.Author == nil
}
