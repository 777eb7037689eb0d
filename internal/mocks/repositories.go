package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/threadnest-api/internal/models"
	"github.com/threadnest-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.PostRepository    = (*MockPostRepository)(nil)
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
)

// NewRepositories returns in-memory repositories sharing nothing but their lifetime
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		User:    NewMockUserRepository(),
		Post:    NewMockPostRepository(),
		Comment: NewMockCommentRepository(),
	}
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func toggleID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}

// MockUserRepository is an in-memory UserRepository
type MockUserRepository struct {
	mu    sync.Mutex
	Users map[string]*models.User
	// Err, when set, is returned by every call
	Err error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*models.User)}
}

func (m *MockUserRepository) find(match func(*models.User) bool) *models.User {
	for _, u := range m.Users {
		if match(u) {
			copied := *u
			return &copied
		}
	}
	return nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, u := range m.Users {
		if u.Email == user.Email || u.Username == user.Username || u.ID == user.ID {
			return repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.find(func(u *models.User) bool { return u.ID == id }), nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.find(func(u *models.User) bool { return u.Email == email }), nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.find(func(u *models.User) bool { return u.Username == username }), nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	users := make([]*models.User, 0, len(m.Users))
	for _, u := range m.Users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (m *MockUserRepository) update(id string, apply func(*models.User)) *models.User {
	u, ok := m.Users[id]
	if !ok {
		return nil
	}
	apply(u)
	u.UpdatedAt = time.Now().UTC()
	copied := *u
	return &copied
}

func (m *MockUserRepository) UpdateUsername(ctx context.Context, id, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.Users {
		if u.Username == username && u.ID != id {
			return nil, repository.ErrDuplicate
		}
	}
	return m.update(id, func(u *models.User) { u.Username = username }), nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.update(id, func(u *models.User) { u.PasswordHash = passwordHash }), nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	delete(m.Users, id)
	return u, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Users), nil
}

// MockPostRepository is an in-memory PostRepository
type MockPostRepository struct {
	mu    sync.Mutex
	seq   int
	order map[string]int
	Posts map[string]*models.Post
	// Err, when set, is returned by every call
	Err error
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		order: make(map[string]int),
		Posts: make(map[string]*models.Post),
	}
}

func clonePost(p *models.Post) *models.Post {
	copied := *p
	copied.Upvotes = cloneIDs(p.Upvotes)
	copied.Comments = cloneIDs(p.Comments)
	return &copied
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.Posts[post.ID]; exists {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	post.Upvotes, post.Comments = []string{}, []string{}
	m.seq++
	m.order[post.ID] = m.seq
	m.Posts[post.ID] = clonePost(post)
	return nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(p), nil
}

func (m *MockPostRepository) List(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	posts := make([]*models.Post, 0, len(m.Posts))
	for _, p := range m.Posts {
		posts = append(posts, clonePost(p))
	}
	// newest first
	sort.Slice(posts, func(i, j int) bool {
		return m.order[posts[i].ID] > m.order[posts[j].ID]
	})
	if offset >= len(posts) {
		return nil, nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end], nil
}

func (m *MockPostRepository) ListIDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var ids []string
	for id, p := range m.Posts {
		if p.AuthorID == authorID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return m.order[ids[i]] < m.order[ids[j]] })
	return ids, nil
}

func (m *MockPostRepository) update(id string, apply func(*models.Post)) *models.Post {
	p, ok := m.Posts[id]
	if !ok {
		return nil
	}
	apply(p)
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p)
}

func (m *MockPostRepository) UpdateFields(ctx context.Context, id, title, content string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.update(id, func(p *models.Post) {
		if title != "" {
			p.Title = title
		}
		if content != "" {
			p.Content = content
		}
	}), nil
}

func (m *MockPostRepository) ToggleUpvote(ctx context.Context, id, userID string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.update(id, func(p *models.Post) { p.Upvotes = toggleID(p.Upvotes, userID) }), nil
}

func (m *MockPostRepository) AddComment(ctx context.Context, postID, commentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	updated := m.update(postID, func(p *models.Post) {
		for _, id := range p.Comments {
			if id == commentID {
				return
			}
		}
		p.Comments = append(p.Comments, commentID)
	})
	return updated != nil, nil
}

func (m *MockPostRepository) RemoveComment(ctx context.Context, postID, commentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	updated := m.update(postID, func(p *models.Post) {
		kept := p.Comments[:0]
		for _, id := range p.Comments {
			if id != commentID {
				kept = append(kept, id)
			}
		}
		p.Comments = kept
	})
	return updated != nil, nil
}

func (m *MockPostRepository) DeleteOwned(ctx context.Context, id, authorID string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Posts[id]
	if !ok || p.AuthorID != authorID {
		return nil, nil
	}
	delete(m.Posts, id)
	delete(m.order, id)
	return p, nil
}

func (m *MockPostRepository) DeleteByAuthor(ctx context.Context, authorID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	deleted := 0
	for id, p := range m.Posts {
		if p.AuthorID == authorID {
			delete(m.Posts, id)
			delete(m.order, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MockPostRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Posts), nil
}

// MockCommentRepository is an in-memory CommentRepository
type MockCommentRepository struct {
	mu       sync.Mutex
	seq      int
	order    map[string]int
	Comments map[string]*models.Comment
	// Err, when set, is returned by every call
	Err error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		order:    make(map[string]int),
		Comments: make(map[string]*models.Comment),
	}
}

func cloneComment(c *models.Comment) *models.Comment {
	copied := *c
	copied.Upvotes = cloneIDs(c.Upvotes)
	return &copied
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.Comments[comment.ID]; exists {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	comment.CreatedAt, comment.UpdatedAt = now, now
	comment.Upvotes = []string{}
	m.seq++
	m.order[comment.ID] = m.seq
	m.Comments[comment.ID] = cloneComment(comment)
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	return cloneComment(c), nil
}

func (m *MockCommentRepository) listWhere(match func(*models.Comment) bool) []*models.Comment {
	var comments []*models.Comment
	for _, c := range m.Comments {
		if match(c) {
			comments = append(comments, cloneComment(c))
		}
	}
	// oldest first
	sort.Slice(comments, func(i, j int) bool {
		return m.order[comments[i].ID] < m.order[comments[j].ID]
	})
	return comments
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.listWhere(func(c *models.Comment) bool { return c.PostID == postID }), nil
}

func (m *MockCommentRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.listWhere(func(c *models.Comment) bool { return c.AuthorID == authorID }), nil
}

func (m *MockCommentRepository) update(id string, apply func(*models.Comment)) *models.Comment {
	c, ok := m.Comments[id]
	if !ok {
		return nil
	}
	apply(c)
	c.UpdatedAt = time.Now().UTC()
	return cloneComment(c)
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, id, content string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.update(id, func(c *models.Comment) { c.Content = content }), nil
}

func (m *MockCommentRepository) ToggleUpvote(ctx context.Context, id, userID string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.update(id, func(c *models.Comment) { c.Upvotes = toggleID(c.Upvotes, userID) }), nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if _, ok := m.Comments[id]; !ok {
		return false, nil
	}
	delete(m.Comments, id)
	delete(m.order, id)
	return true, nil
}

func (m *MockCommentRepository) deleteWhere(match func(*models.Comment) bool) int {
	deleted := 0
	for id, c := range m.Comments {
		if match(c) {
			delete(m.Comments, id)
			delete(m.order, id)
			deleted++
		}
	}
	return deleted
}

func (m *MockCommentRepository) DeleteByPost(ctx context.Context, postID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return m.deleteWhere(func(c *models.Comment) bool { return c.PostID == postID }), nil
}

func (m *MockCommentRepository) DeleteByAuthor(ctx context.Context, authorID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return m.deleteWhere(func(c *models.Comment) bool { return c.AuthorID == authorID }), nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Comments), nil
}
