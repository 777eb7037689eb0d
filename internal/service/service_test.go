package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/threadnest-api/internal/apperror"
	"github.com/threadnest-api/internal/auth"
	"github.com/threadnest-api/internal/mocks"
	"github.com/threadnest-api/internal/models"
	"github.com/threadnest-api/internal/repository"
	"github.com/threadnest-api/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Str0ng!Pass"

var postContent = strings.Repeat("c", models.MinContentLength)

type fixture struct {
	svcs     *service.Services
	tokens   *auth.TokenService
	users    *mocks.MockUserRepository
	posts    *mocks.MockPostRepository
	comments *mocks.MockCommentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		tokens:   auth.NewTokenService("test-secret", time.Hour),
		users:    mocks.NewMockUserRepository(),
		posts:    mocks.NewMockPostRepository(),
		comments: mocks.NewMockCommentRepository(),
	}
	repos := &repository.Repositories{User: f.users, Post: f.posts, Comment: f.comments}
	f.svcs = service.NewServices(repos, f.tokens, auth.NewCredentials(f.users, bcrypt.MinCost), zerolog.Nop())
	return f
}

func (f *fixture) signup(t *testing.T, username string) string {
	t.Helper()
	resp, err := f.svcs.User.Signup(context.Background(), &models.SignupRequest{
		Email:    username + "@test.com",
		Password: testPassword,
		Username: username,
	})
	if err != nil {
		t.Fatalf("Signup(%s) failed: %v", username, err)
	}
	id, err := f.tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	return id
}

func (f *fixture) createPost(t *testing.T, authorID string) *models.PostView {
	t.Helper()
	post, err := f.svcs.Post.Create(context.Background(), authorID, &models.PostRequest{Title: "A title", Content: postContent})
	if err != nil {
		t.Fatalf("Create post failed: %v", err)
	}
	return post
}

func (f *fixture) createComment(t *testing.T, postID, authorID string) *models.CommentView {
	t.Helper()
	comment, err := f.svcs.Comment.Create(context.Background(), postID, authorID, &models.CommentRequest{Content: "nice"})
	if err != nil {
		t.Fatalf("Create comment failed: %v", err)
	}
	return comment
}

func expectError(t *testing.T, err error, kind apperror.Kind, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %s error %q, got nil", kind, message)
	}
	appErr := apperror.From(err)
	if appErr.Kind != kind {
		t.Errorf("Expected kind %s, got %s (%v)", kind, appErr.Kind, err)
	}
	if message != "" && appErr.Message != message {
		t.Errorf("Expected message %q, got %q", message, appErr.Message)
	}
}

func TestUserService_Signup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svcs.User.Signup(ctx, &models.SignupRequest{
		Email: "Alice@Test.com", Password: testPassword, Username: "alice",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if resp.Email != "alice@test.com" || resp.Username != "alice" || resp.Token == "" {
		t.Errorf("Unexpected response: %+v", resp)
	}

	stored, _ := f.users.GetByEmail(ctx, "alice@test.com")
	if stored == nil || stored.PasswordHash == testPassword {
		t.Fatal("Password must be stored hashed")
	}

	tests := []struct {
		name    string
		req     models.SignupRequest
		kind    apperror.Kind
		message string
	}{
		{"missing field", models.SignupRequest{Email: "b@test.com", Password: testPassword}, apperror.KindValidation, "All fields are required"},
		{"bad email", models.SignupRequest{Email: "nope", Password: testPassword, Username: "bob"}, apperror.KindValidation, "Email is not valid"},
		{"weak password", models.SignupRequest{Email: "b@test.com", Password: "password", Username: "bob"}, apperror.KindValidation, "Password not strong enough"},
		{"short username", models.SignupRequest{Email: "b@test.com", Password: testPassword, Username: "bo"}, apperror.KindValidation,
			"User validation failed: username: Username must be at least 3 characters long"},
		{"duplicate email", models.SignupRequest{Email: "ALICE@test.com", Password: testPassword, Username: "alice2"}, apperror.KindConflict, "Email already in use"},
		{"duplicate username", models.SignupRequest{Email: "b@test.com", Password: testPassword, Username: "alice"}, apperror.KindConflict, "Username already in use"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svcs.User.Signup(ctx, &req)
			expectError(t, err, tt.kind, tt.message)
		})
	}
}

func TestUserService_ConcurrentSignupSameEmail(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svcs.User.Signup(context.Background(), &models.SignupRequest{
				Email: "race@test.com", Password: testPassword, Username: "racer" + string(rune('a'+i)),
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !apperror.Is(err, apperror.KindConflict) {
				t.Errorf("Expected conflict, got %v", err)
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("Expected exactly one signup to succeed, got %d", succeeded)
	}
}

func TestUserService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.signup(t, "alice")

	resp, err := f.svcs.User.Login(ctx, &models.LoginRequest{Email: "ALICE@test.com", Password: testPassword})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got, _ := f.tokens.Verify(resp.Token); got != id {
		t.Errorf("Token carries %q, want %q", got, id)
	}

	_, err = f.svcs.User.Login(ctx, &models.LoginRequest{Email: "nobody@test.com", Password: testPassword})
	expectError(t, err, apperror.KindNotFound, "Incorrect email")

	_, err = f.svcs.User.Login(ctx, &models.LoginRequest{Email: "alice@test.com", Password: "Wr0ng!Pass"})
	expectError(t, err, apperror.KindUnauthorized, "Incorrect password")

	_, err = f.svcs.User.Login(ctx, &models.LoginRequest{Email: "alice@test.com"})
	expectError(t, err, apperror.KindValidation, "All fields are required")
}

func TestUserService_GetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svcs.User.List(ctx)
	expectError(t, err, apperror.KindNotFound, "No users found")

	id := f.signup(t, "alice")

	user, err := f.svcs.User.Get(ctx, strings.ToUpper(id))
	if err != nil || user.ID != id {
		t.Fatalf("Get returned (%v, %v)", user, err)
	}

	_, err = f.svcs.User.Get(ctx, "not-an-id")
	expectError(t, err, apperror.KindInvalidID, "Invalid user ID")

	_, err = f.svcs.User.Get(ctx, uuid.NewString())
	expectError(t, err, apperror.KindNotFound, "User not found")

	users, err := f.svcs.User.List(ctx)
	if err != nil || len(users) != 1 {
		t.Errorf("List returned (%v, %v)", users, err)
	}
}

func TestUserService_UpdateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")

	_, err := f.svcs.User.UpdateUsername(ctx, bob, alice, "mallory")
	expectError(t, err, apperror.KindUnauthorized, "Logged user does not match user in params")

	_, err = f.svcs.User.UpdateUsername(ctx, alice, alice, "")
	expectError(t, err, apperror.KindValidation, "Username is required for patch")

	_, err = f.svcs.User.UpdateUsername(ctx, alice, alice, "al")
	expectError(t, err, apperror.KindValidation, "Validation failed: username: Username must be at least 3 characters long")

	_, err = f.svcs.User.UpdateUsername(ctx, alice, alice, "bob")
	expectError(t, err, apperror.KindConflict, "Username already exists")

	user, err := f.svcs.User.UpdateUsername(ctx, alice, alice, "alicia")
	if err != nil || user.Username != "alicia" {
		t.Errorf("UpdateUsername returned (%v, %v)", user, err)
	}
}

func TestUserService_UpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")

	_, err := f.svcs.User.UpdatePassword(ctx, alice, alice, "weak")
	expectError(t, err, apperror.KindValidation, "Password not strong enough")

	if _, err := f.svcs.User.UpdatePassword(ctx, alice, alice, "N3w!Password"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}

	_, err = f.svcs.User.Login(ctx, &models.LoginRequest{Email: "alice@test.com", Password: testPassword})
	expectError(t, err, apperror.KindUnauthorized, "Incorrect password")
	if _, err := f.svcs.User.Login(ctx, &models.LoginRequest{Email: "alice@test.com", Password: "N3w!Password"}); err != nil {
		t.Errorf("Login with new password failed: %v", err)
	}
}

func TestUserService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")

	alicePost1 := f.createPost(t, alice)
	alicePost2 := f.createPost(t, alice)
	bobPost := f.createPost(t, bob)

	f.createComment(t, alicePost1.ID, bob)
	f.createComment(t, alicePost1.ID, alice)
	aliceOnBob := f.createComment(t, bobPost.ID, alice)
	bobOnBob := f.createComment(t, bobPost.ID, bob)
	_ = alicePost2

	_, err := f.svcs.User.Delete(ctx, bob, alice)
	expectError(t, err, apperror.KindUnauthorized, "Logged user does not match user in params")

	result, err := f.svcs.User.Delete(ctx, alice, alice)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if result.PostsDeleted != 2 {
		t.Errorf("Expected 2 posts deleted, got %d", result.PostsDeleted)
	}
	if result.CommentsDeleted != 2 {
		t.Errorf("Expected 2 comments deleted, got %d", result.CommentsDeleted)
	}
	wantMsg := "User alice with id " + alice + " and his related posts/comments have been deleted succesfully"
	if result.Message != wantMsg {
		t.Errorf("Unexpected message %q", result.Message)
	}

	if left, _ := f.posts.ListIDsByAuthor(ctx, alice); len(left) != 0 {
		t.Errorf("Expected no posts by alice, got %d", len(left))
	}
	if left, _ := f.comments.ListByAuthor(ctx, alice); len(left) != 0 {
		t.Errorf("Expected no comments by alice, got %d", len(left))
	}
	if orphans, _ := f.comments.ListByPost(ctx, alicePost1.ID); len(orphans) != 0 {
		t.Errorf("Expected comments on alice's post to be gone, got %d", len(orphans))
	}

	survivor, _ := f.posts.GetByID(ctx, bobPost.ID)
	if len(survivor.Comments) != 1 || survivor.Comments[0] != bobOnBob.ID {
		t.Errorf("Expected bob's post to reference only %s, got %v (removed %s)", bobOnBob.ID, survivor.Comments, aliceOnBob.ID)
	}
	if user, _ := f.users.GetByID(ctx, alice); user != nil {
		t.Error("User should be deleted")
	}
}

func TestPostService_TitleBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")

	_, err := f.svcs.Post.Create(ctx, alice, &models.PostRequest{Title: "ab", Content: postContent})
	expectError(t, err, apperror.KindValidation, "Post validation failed: title: Post title must be at least 3 characters long")

	post, err := f.svcs.Post.Create(ctx, alice, &models.PostRequest{Title: "abc", Content: postContent})
	if err != nil {
		t.Fatalf("Expected 3-character title to pass: %v", err)
	}
	if post.UpvotesCount != 0 || post.CommentsCount != 0 || len(post.Upvotes) != 0 {
		t.Errorf("New post should have empty collections: %+v", post)
	}

	_, err = f.svcs.Post.Create(ctx, alice, &models.PostRequest{Title: "abc"})
	expectError(t, err, apperror.KindValidation, "Title and content are required")

	_, err = f.svcs.Post.Create(ctx, alice, &models.PostRequest{Title: strings.Repeat("t", 251), Content: postContent})
	expectError(t, err, apperror.KindValidation, "Post validation failed: title: Post title cannot exceed 250 characters")

	_, err = f.svcs.Post.Create(ctx, alice, &models.PostRequest{Title: "abc", Content: strings.Repeat("c", 49)})
	expectError(t, err, apperror.KindValidation, "Post validation failed: content: Post content must be at least 50 characters long")
}

func TestPostService_DoubleToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")
	post := f.createPost(t, alice)

	first, err := f.svcs.Post.ToggleUpvote(ctx, post.ID, bob)
	if err != nil {
		t.Fatalf("ToggleUpvote failed: %v", err)
	}
	if !first.Upvoted || first.UpvotesCount != 1 {
		t.Errorf("Expected upvoted with count 1, got %+v", first)
	}

	viewAsAlice, _ := f.svcs.Post.Get(ctx, post.ID, alice)
	if viewAsAlice.Upvoted {
		t.Error("upvoted must reflect the caller, not any voter")
	}

	second, _ := f.svcs.Post.ToggleUpvote(ctx, post.ID, bob)
	if second.Upvoted || second.UpvotesCount != post.UpvotesCount {
		t.Errorf("Double toggle should restore the baseline, got %+v", second)
	}

	_, err = f.svcs.Post.ToggleUpvote(ctx, "bad", bob)
	expectError(t, err, apperror.KindInvalidID, "Invalid post ID")
	_, err = f.svcs.Post.ToggleUpvote(ctx, uuid.NewString(), bob)
	expectError(t, err, apperror.KindNotFound, "Post not found")
}

func TestPostService_ConcurrentToggles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	post := f.createPost(t, alice)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svcs.Post.ToggleUpvote(ctx, post.ID, uuid.NewString()); err != nil {
				t.Errorf("ToggleUpvote failed: %v", err)
			}
		}()
	}
	wg.Wait()

	view, _ := f.svcs.Post.Get(ctx, post.ID, alice)
	if view.UpvotesCount != 20 {
		t.Errorf("Expected 20 upvotes, got %d", view.UpvotesCount)
	}
}

func TestPostService_ListPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")

	_, err := f.svcs.Post.List(ctx, alice, 1)
	expectError(t, err, apperror.KindNotFound, "No posts found")

	var last *models.PostView
	for i := 0; i < models.PostsPageSize+1; i++ {
		last = f.createPost(t, alice)
	}

	page1, err := f.svcs.Post.List(ctx, alice, 1)
	if err != nil || len(page1) != models.PostsPageSize {
		t.Fatalf("page 1 returned (%d, %v)", len(page1), err)
	}
	if page1[0].ID != last.ID {
		t.Error("Expected newest post first")
	}

	page2, _ := f.svcs.Post.List(ctx, alice, 2)
	if len(page2) != 1 {
		t.Errorf("Expected 1 post on page 2, got %d", len(page2))
	}

	_, err = f.svcs.Post.List(ctx, alice, 50)
	expectError(t, err, apperror.KindNotFound, "No posts found")

	_, err = f.svcs.Post.List(ctx, alice, 0)
	expectError(t, err, apperror.KindValidation, "Invalid load parameter")
}

func TestPostService_Edit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")
	post := f.createPost(t, alice)

	_, err := f.svcs.Post.Edit(ctx, post.ID, bob, &models.PostRequest{Title: "Hijacked"})
	expectError(t, err, apperror.KindForbidden, "You are not authorized to edit this post")

	_, err = f.svcs.Post.Edit(ctx, post.ID, alice, &models.PostRequest{})
	expectError(t, err, apperror.KindValidation, "Title or content is required for patch")

	_, err = f.svcs.Post.Edit(ctx, post.ID, alice, &models.PostRequest{Title: "no"})
	expectError(t, err, apperror.KindValidation, "Validation failed: title: Post title must be at least 3 characters long")

	_, err = f.svcs.Post.Edit(ctx, uuid.NewString(), alice, &models.PostRequest{Title: "New title"})
	expectError(t, err, apperror.KindNotFound, "Post not found")

	edited, err := f.svcs.Post.Edit(ctx, post.ID, alice, &models.PostRequest{Title: "New title"})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if edited.Title != "New title" || edited.Content != postContent {
		t.Errorf("Only the title should change, got %+v", edited.Post)
	}
}

func TestPostService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")
	post := f.createPost(t, alice)
	f.createComment(t, post.ID, alice)
	f.createComment(t, post.ID, bob)

	_, err := f.svcs.Post.Delete(ctx, post.ID, bob)
	expectError(t, err, apperror.KindNotFound, "Post not found")

	result, err := f.svcs.Post.Delete(ctx, post.ID, alice)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if result.CommentsDeleted != 2 {
		t.Errorf("Expected 2 comments deleted, got %d", result.CommentsDeleted)
	}
	if result.Post.ID != post.ID || result.Post.Title != post.Title || result.Post.AuthorID != alice {
		t.Errorf("Unexpected summary %+v", result.Post)
	}
	wantMsg := "Post A title with id " + post.ID + " and it's related comments have been deleted succesfully"
	if result.Message != wantMsg {
		t.Errorf("Unexpected message %q", result.Message)
	}
	if n, _ := f.comments.Count(ctx); n != 0 {
		t.Errorf("Expected no comments left, got %d", n)
	}
}

func TestCommentService_CreateAndDeleteKeepsCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	post := f.createPost(t, alice)

	const n = 5
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, f.createComment(t, post.ID, alice).ID)
	}

	view, _ := f.svcs.Post.Get(ctx, post.ID, alice)
	if view.CommentsCount != n {
		t.Fatalf("Expected %d comments, got %d", n, view.CommentsCount)
	}

	list, err := f.svcs.Comment.ListForPost(ctx, post.ID, alice)
	if err != nil || len(list) != n || list[0].ID != ids[0] {
		t.Fatalf("ListForPost returned (%d, %v)", len(list), err)
	}

	for _, id := range ids {
		if err := f.svcs.Comment.Delete(ctx, id, alice); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	}

	view, _ = f.svcs.Post.Get(ctx, post.ID, alice)
	if view.CommentsCount != 0 {
		t.Errorf("Expected 0 comments, got %d", view.CommentsCount)
	}
	if orphans, _ := f.comments.ListByPost(ctx, post.ID); len(orphans) != 0 {
		t.Errorf("Expected no orphans, got %d", len(orphans))
	}

	_, err = f.svcs.Comment.ListForPost(ctx, post.ID, alice)
	expectError(t, err, apperror.KindNotFound, "No comments found")
}

func TestCommentService_ContentBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	post := f.createPost(t, alice)

	if _, err := f.svcs.Comment.Create(ctx, post.ID, alice, &models.CommentRequest{Content: strings.Repeat("é", 500)}); err != nil {
		t.Errorf("500 characters should pass: %v", err)
	}

	_, err := f.svcs.Comment.Create(ctx, post.ID, alice, &models.CommentRequest{Content: strings.Repeat("x", 501)})
	expectError(t, err, apperror.KindValidation, "Comment validation failed: content: Comment cannot exceed 500 characters")

	_, err = f.svcs.Comment.Create(ctx, post.ID, alice, &models.CommentRequest{})
	expectError(t, err, apperror.KindValidation, "Content is required")

	_, err = f.svcs.Comment.Create(ctx, "bad", alice, &models.CommentRequest{Content: "hi"})
	expectError(t, err, apperror.KindInvalidID, "Invalid post ID")

	_, err = f.svcs.Comment.Create(ctx, uuid.NewString(), alice, &models.CommentRequest{Content: "hi"})
	expectError(t, err, apperror.KindNotFound, "Post not found")
}

func TestCommentService_OwnershipAndToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")
	post := f.createPost(t, alice)
	comment := f.createComment(t, post.ID, alice)

	_, err := f.svcs.Comment.Edit(ctx, comment.ID, bob, &models.CommentRequest{Content: "mine now"})
	expectError(t, err, apperror.KindUnauthorized, "User id and author_id are not equal")

	err = f.svcs.Comment.Delete(ctx, comment.ID, bob)
	expectError(t, err, apperror.KindUnauthorized, "User id and author_id are not equal")

	_, err = f.svcs.Comment.Edit(ctx, comment.ID, alice, &models.CommentRequest{})
	expectError(t, err, apperror.KindValidation, "Content is required for patch")

	edited, err := f.svcs.Comment.Edit(ctx, comment.ID, alice, &models.CommentRequest{Content: "edited"})
	if err != nil || edited.Content != "edited" {
		t.Fatalf("Edit returned (%v, %v)", edited, err)
	}

	toggled, _ := f.svcs.Comment.ToggleUpvote(ctx, comment.ID, bob)
	if !toggled.Upvoted || toggled.UpvotesCount != 1 {
		t.Errorf("Expected one upvote, got %+v", toggled)
	}
	toggled, _ = f.svcs.Comment.ToggleUpvote(ctx, comment.ID, bob)
	if toggled.Upvoted || toggled.UpvotesCount != 0 {
		t.Errorf("Expected upvote removed, got %+v", toggled)
	}

	_, err = f.svcs.Comment.ToggleUpvote(ctx, "nope", bob)
	expectError(t, err, apperror.KindInvalidID, "Invalid comment ID")
	_, err = f.svcs.Comment.ToggleUpvote(ctx, uuid.NewString(), bob)
	expectError(t, err, apperror.KindNotFound, "Comment not found")
}

// vanishingPosts loses every post between lookup and reference registration
type vanishingPosts struct {
	*mocks.MockPostRepository
}

func (v vanishingPosts) AddComment(ctx context.Context, postID, commentID string) (bool, error) {
	return false, nil
}

func TestCommentService_CreateCompensatesVanishedPost(t *testing.T) {
	users := mocks.NewMockUserRepository()
	posts := mocks.NewMockPostRepository()
	comments := mocks.NewMockCommentRepository()
	repos := &repository.Repositories{User: users, Post: vanishingPosts{posts}, Comment: comments}
	svcs := service.NewServices(repos, auth.NewTokenService("s", time.Hour), auth.NewCredentials(users, bcrypt.MinCost), zerolog.Nop())
	ctx := context.Background()

	author := uuid.NewString()
	post, err := svcs.Post.Create(ctx, author, &models.PostRequest{Title: "title", Content: postContent})
	if err != nil {
		t.Fatalf("Create post failed: %v", err)
	}

	_, err = svcs.Comment.Create(ctx, post.ID, author, &models.CommentRequest{Content: "hi"})
	expectError(t, err, apperror.KindNotFound, "Post not found")

	if n, _ := comments.Count(ctx); n != 0 {
		t.Errorf("Expected the unreferenced comment to be removed, got %d", n)
	}
}

func TestServices_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.posts.Err = context.DeadlineExceeded

	_, err := f.svcs.Post.List(context.Background(), uuid.NewString(), 1)
	expectError(t, err, apperror.KindInternal, "Internal server error")
}

func TestStatsService_Counts(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")
	post := f.createPost(t, alice)
	f.createComment(t, post.ID, alice)

	counts, err := f.svcs.Stats.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Users != 1 || counts.Posts != 1 || counts.Comments != 1 {
		t.Errorf("Unexpected counts %+v", counts)
	}
}
