package models

import (
	"time"
)

// MaxCommentLength is the maximum comment length in Unicode code points
const MaxCommentLength = 500

// Comment is a reply to a post. PostID is the authoritative back-reference
// used by cascade deletes.
type Comment struct {
	ID        string    `json:"_id" db:"id"`
	PostID    string    `json:"post_id" db:"post_id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	Upvotes   []string  `json:"upvotes" db:"upvotes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CommentView is a comment annotated for a specific caller
type CommentView struct {
	Comment
	UpvotesCount int  `json:"upvotesCount"`
	Upvoted      bool `json:"upvoted"`
}

// View annotates the comment for callerID
func (c *Comment) View(callerID string) CommentView {
	comment := *c
	if comment.Upvotes == nil {
		comment.Upvotes = []string{}
	}
	return CommentView{
		Comment:      comment,
		UpvotesCount: len(comment.Upvotes),
		Upvoted:      containsID(comment.Upvotes, callerID),
	}
}

// CommentRequest is the body for creating or editing a comment
type CommentRequest struct {
	Content string `json:"content"`
}

// MessageResponse is a bare acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}
