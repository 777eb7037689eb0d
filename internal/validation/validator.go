package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/threadnest-api/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*\.[a-zA-Z]{2,}$`)
)

// MinPasswordLength is the minimum length accepted by StrongPassword
const MinPasswordLength = 8

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Describe renders the failure as "<prefix>: <field>: <message>"
func (e *ValidationError) Describe(prefix string) string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Field, e.Message)
}

// PasswordPolicy decides whether a password is strong enough
type PasswordPolicy func(password string) bool

// StrongPassword requires MinPasswordLength characters with at least one
// lowercase letter, uppercase letter, digit and symbol.
func StrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// Validator provides validation methods
type Validator struct {
	passwordPolicy PasswordPolicy
}

// NewValidator creates a validator using the StrongPassword policy
func NewValidator() *Validator {
	return NewValidatorWithPolicy(StrongPassword)
}

// NewValidatorWithPolicy creates a validator with a custom password policy
func NewValidatorWithPolicy(policy PasswordPolicy) *Validator {
	if policy == nil {
		policy = StrongPassword
	}
	return &Validator{passwordPolicy: policy}
}

// IsEmail reports whether email is RFC-shaped
func (v *Validator) IsEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	local, _, ok := strings.Cut(email, "@")
	if !ok || len(local) > 64 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsStrongPassword applies the configured password policy
func (v *Validator) IsStrongPassword(password string) bool {
	return v.passwordPolicy(password)
}

// ValidateUsername checks username length bounds
func (v *Validator) ValidateUsername(username string) *ValidationError {
	return checkLength("username", username, models.MinUsernameLength, models.MaxUsernameLength,
		"Username must be at least %d characters long", "Username cannot exceed %d characters")
}

// ValidateTitle checks post title length bounds
func (v *Validator) ValidateTitle(title string) *ValidationError {
	return checkLength("title", title, models.MinTitleLength, models.MaxTitleLength,
		"Post title must be at least %d characters long", "Post title cannot exceed %d characters")
}

// ValidatePostContent checks post content length bounds
func (v *Validator) ValidatePostContent(content string) *ValidationError {
	return checkLength("content", content, models.MinContentLength, models.MaxContentLength,
		"Post content must be at least %d characters long", "Post content cannot exceed %d characters")
}

// ValidateCommentContent checks the comment length ceiling
func (v *Validator) ValidateCommentContent(content string) *ValidationError {
	return checkLength("content", content, 0, models.MaxCommentLength,
		"", "Comment cannot exceed %d characters")
}

func checkLength(field, value string, min, max int, tooShort, tooLong string) *ValidationError {
	n := utf8.RuneCountInString(value)
	if n < min {
		return &ValidationError{Field: field, Message: fmt.Sprintf(tooShort, min), Value: n}
	}
	if n > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf(tooLong, max), Value: n}
	}
	return nil
}

// ParseID returns the canonical form of a well-formed identifier.
// Identifiers are compared only in this form.
func ParseID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
