package models

import (
	"time"
)

// Post length bounds, counted in Unicode code points
const (
	MinTitleLength   = 3
	MaxTitleLength   = 250
	MinContentLength = 50
	MaxContentLength = 2500

	// PostsPageSize is the fixed page size of the post feed
	PostsPageSize = 20
)

// Post is a forum post. Upvotes holds each upvoter at most once and
// Comments holds the ordered comment references; both counts are derived
// from these slices.
type Post struct {
	ID        string    `json:"_id" db:"id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Upvotes   []string  `json:"upvotes" db:"upvotes"`
	Comments  []string  `json:"comments" db:"comment_ids"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// PostView is a post annotated for a specific caller
type PostView struct {
	Post
	UpvotesCount  int  `json:"upvotesCount"`
	CommentsCount int  `json:"commentsCount"`
	Upvoted       bool `json:"upvoted"`
}

// View annotates the post for callerID
func (p *Post) View(callerID string) PostView {
	post := *p
	if post.Upvotes == nil {
		post.Upvotes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []string{}
	}
	return PostView{
		Post:          post,
		UpvotesCount:  len(post.Upvotes),
		CommentsCount: len(post.Comments),
		Upvoted:       containsID(post.Upvotes, callerID),
	}
}

// PostSummary is the projection returned after a post is deleted
type PostSummary struct {
	ID       string `json:"_id"`
	AuthorID string `json:"author_id"`
	Title    string `json:"title"`
}

// DeletePostResult reports a post delete and its comment cascade
type DeletePostResult struct {
	Message         string      `json:"message"`
	Post            PostSummary `json:"post"`
	CommentsDeleted int         `json:"commentsDeleted"`
}

// PostRequest is the body for creating or editing a post
type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func containsID(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
