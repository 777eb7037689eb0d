package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/threadnest-api/internal/apperror"
	"github.com/threadnest-api/internal/auth"
	"github.com/threadnest-api/internal/models"
	"github.com/threadnest-api/internal/repository"
	"github.com/threadnest-api/internal/validation"
)

// userService is the concrete implementation of UserService
type userService struct {
	users     repository.UserRepository
	posts     repository.PostRepository
	comments  repository.CommentRepository
	tokens    *auth.TokenService
	creds     *auth.Credentials
	validator *validation.Validator
	log       zerolog.Logger
}

func newUserService(
	repos *repository.Repositories,
	tokens *auth.TokenService,
	creds *auth.Credentials,
	validator *validation.Validator,
	log zerolog.Logger,
) *userService {
	return &userService{
		users:     repos.User,
		posts:     repos.Post,
		comments:  repos.Comment,
		tokens:    tokens,
		creds:     creds,
		validator: validator,
		log:       log.With().Str("service", "user").Logger(),
	}
}

func parseUserID(id string) (string, error) {
	userID, ok := validation.ParseID(id)
	if !ok {
		return "", apperror.InvalidID("Invalid user ID")
	}
	return userID, nil
}

// Signup registers a new account and issues its first token
func (s *userService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return nil, apperror.Validation("All fields are required")
	}
	email := validation.NormalizeEmail(req.Email)
	if !s.validator.IsEmail(email) {
		return nil, apperror.Validation("Email is not valid")
	}
	if !s.validator.IsStrongPassword(req.Password) {
		return nil, apperror.Validation("Password not strong enough")
	}
	if verr := s.validator.ValidateUsername(req.Username); verr != nil {
		return nil, apperror.Validation(verr.Describe("User validation failed"))
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeFailure(s.log, "get user by email", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("Email already in use")
	}
	existing, err = s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, storeFailure(s.log, "get user by username", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("Username already in use")
	}

	hash, err := s.creds.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("Internal server error", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race against a concurrent signup
			return nil, apperror.Conflict("Email already in use")
		}
		return nil, storeFailure(s.log, "create user", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("User signed up")
	return s.authResponse(user)
}

// Login checks credentials and issues a token
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperror.Validation("All fields are required")
	}

	user, err := s.creds.Authenticate(ctx, validation.NormalizeEmail(req.Email), req.Password)
	switch {
	case errors.Is(err, auth.ErrIncorrectEmail):
		return nil, apperror.NotFound("Incorrect email")
	case errors.Is(err, auth.ErrIncorrectPassword):
		return nil, apperror.Unauthorized("Incorrect password")
	case err != nil:
		return nil, storeFailure(s.log, "authenticate", err)
	}

	return s.authResponse(user)
}

func (s *userService) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.Internal("Internal server error", err)
	}
	return &models.AuthResponse{Email: user.Email, Token: token, Username: user.Username}, nil
}

// List returns every registered user
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeFailure(s.log, "list users", err)
	}
	if len(users) == 0 {
		return nil, apperror.NotFound("No users found")
	}
	return users, nil
}

// Get returns a single user
func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeFailure(s.log, "get user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func (s *userService) checkSelf(callerID, targetID string) (string, error) {
	userID, err := parseUserID(targetID)
	if err != nil {
		return "", err
	}
	if userID != callerID {
		return "", apperror.Unauthorized("Logged user does not match user in params")
	}
	return userID, nil
}

// UpdateUsername renames the caller's own account
func (s *userService) UpdateUsername(ctx context.Context, callerID, targetID, username string) (*models.User, error) {
	userID, err := s.checkSelf(callerID, targetID)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, apperror.Validation("Username is required for patch")
	}
	if verr := s.validator.ValidateUsername(username); verr != nil {
		return nil, apperror.Validation(verr.Describe("Validation failed"))
	}

	taken, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, storeFailure(s.log, "get user by username", err)
	}
	if taken != nil && taken.ID != userID {
		return nil, apperror.Conflict("Username already exists")
	}

	user, err := s.users.UpdateUsername(ctx, userID, username)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperror.Conflict("Username already exists")
	}
	if err != nil {
		return nil, storeFailure(s.log, "update username", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

// UpdatePassword re-hashes the caller's password
func (s *userService) UpdatePassword(ctx context.Context, callerID, targetID, password string) (*models.User, error) {
	userID, err := s.checkSelf(callerID, targetID)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, apperror.Validation("Password is required for patch")
	}
	if !s.validator.IsStrongPassword(password) {
		return nil, apperror.Validation("Password not strong enough")
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal("Internal server error", err)
	}

	user, err := s.users.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return nil, storeFailure(s.log, "update password", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

// Delete removes the caller's account with every post and comment they
// wrote. Comments of other users on the deleted posts go with the posts;
// the caller's comments on surviving posts are unlinked from them.
func (s *userService) Delete(ctx context.Context, callerID, targetID string) (*models.DeleteUserResult, error) {
	userID, err := s.checkSelf(callerID, targetID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeFailure(s.log, "get user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	ownComments, err := s.comments.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, storeFailure(s.log, "list user comments", err)
	}

	postIDs, err := s.posts.ListIDsByAuthor(ctx, userID)
	if err != nil {
		return nil, storeFailure(s.log, "list user posts", err)
	}
	ownPosts := make(map[string]bool, len(postIDs))
	for _, postID := range postIDs {
		ownPosts[postID] = true
		if _, err := s.comments.DeleteByPost(ctx, postID); err != nil {
			return nil, storeFailure(s.log, "delete post comments", err)
		}
	}
	postsDeleted, err := s.posts.DeleteByAuthor(ctx, userID)
	if err != nil {
		return nil, storeFailure(s.log, "delete user posts", err)
	}

	for _, c := range ownComments {
		if ownPosts[c.PostID] {
			continue
		}
		if _, err := s.posts.RemoveComment(ctx, c.PostID, c.ID); err != nil {
			return nil, storeFailure(s.log, "remove comment reference", err)
		}
	}
	if _, err := s.comments.DeleteByAuthor(ctx, userID); err != nil {
		return nil, storeFailure(s.log, "delete user comments", err)
	}

	if _, err := s.users.Delete(ctx, userID); err != nil {
		return nil, storeFailure(s.log, "delete user", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Int("posts_deleted", postsDeleted).
		Int("comments_deleted", len(ownComments)).
		Msg("User deleted")

	return &models.DeleteUserResult{
		Message: fmt.Sprintf("User %s with id %s and his related posts/comments have been deleted succesfully",
			user.Username, user.ID),
		User:            user.Summary(),
		PostsDeleted:    postsDeleted,
		CommentsDeleted: len(ownComments),
	}, nil
}
