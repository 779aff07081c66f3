package application

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/ericfisherdev/iatsite/internal/domain/model"
	"github.com/ericfisherdev/iatsite/internal/domain/port/driven"
)

var (
	// ErrInvalidInquiry is wrapped by ValidationError.
	ErrInvalidInquiry = errors.New("invalid inquiry")
	// ErrInquiryNotFound is returned by Get for an unknown ID.
	ErrInquiryNotFound = errors.New("inquiry not found")
)

// Field length limits for contact form submissions.
const (
	maxNameLength    = 120
	maxEmailLength   = 254
	maxMessageLength = 4000
	minPhoneDigits   = 7
	maxPhoneDigits   = 15
)

// InquiryInput is the raw contact form as submitted by a visitor.
type InquiryInput struct {
	Name    string
	Email   string
	Phone   string
	Course  string
	Message string
}

// ValidationError lists the form fields that failed validation, keyed by
// form field name.
type ValidationError struct {
	Fields map[string]string
}

// Error implements error.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrInvalidInquiry, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidInquiry so callers can use errors.Is.
func (e *ValidationError) Unwrap() error { return ErrInvalidInquiry }

// InquiryService validates and records contact form submissions.
type InquiryService struct {
	store     driven.InquiryStore
	sanitizer *bluemonday.Policy
	now       func() time.Time
	newID     func() string
}

// NewInquiryService creates an InquiryService persisting to store.
func NewInquiryService(store driven.InquiryStore) *InquiryService {
	return &InquiryService{
		store:     store,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Submit validates input against the course catalog, strips any markup and
// persists the inquiry. Validation failures return a *ValidationError. The
// course field is optional but, when set, must name a catalog course.
func (s *InquiryService) Submit(ctx context.Context, input InquiryInput, catalog *Catalog) (model.Inquiry, error) {
	clean := InquiryInput{
		Name:    s.clean(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Course:  strings.TrimSpace(input.Course),
		Message: s.clean(input.Message),
	}

	if verr := validateInquiry(clean, catalog); verr != nil {
		return model.Inquiry{}, verr
	}

	inquiry := model.Inquiry{
		ID:        s.newID(),
		Name:      clean.Name,
		Email:     clean.Email,
		Phone:     clean.Phone,
		Course:    clean.Course,
		Message:   clean.Message,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.Create(ctx, inquiry); err != nil {
		return model.Inquiry{}, fmt.Errorf("store inquiry: %w", err)
	}
	return inquiry, nil
}

// Recent returns up to limit of the newest inquiries.
func (s *InquiryService) Recent(ctx context.Context, limit int) ([]model.Inquiry, error) {
	inquiries, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent inquiries: %w", err)
	}
	return inquiries, nil
}

// Get returns the inquiry with the given ID.
func (s *InquiryService) Get(ctx context.Context, id string) (model.Inquiry, error) {
	inquiry, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Inquiry{}, fmt.Errorf("get inquiry: %w", err)
	}
	if inquiry == nil {
		return model.Inquiry{}, fmt.Errorf("%w: %s", ErrInquiryNotFound, id)
	}
	return *inquiry, nil
}

// Count returns the number of stored inquiries.
func (s *InquiryService) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count inquiries: %w", err)
	}
	return n, nil
}

// clean strips markup and returns plain text. The sanitizer escapes entities,
// which are unescaped again because templates escape on output.
func (s *InquiryService) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(v)))
}

func validateInquiry(in InquiryInput, catalog *Catalog) *ValidationError {
	fields := make(map[string]string)

	switch {
	case in.Name == "":
		fields["name"] = "Please enter your name."
	case len(in.Name) > maxNameLength:
		fields["name"] = "Name is too long."
	}

	switch {
	case in.Email == "":
		fields["email"] = "Please enter your email address."
	case len(in.Email) > maxEmailLength || !validEmail(in.Email):
		fields["email"] = "Please enter a valid email address."
	}

	switch digits := countDigits(in.Phone); {
	case in.Phone == "":
		fields["phone"] = "Please enter your phone number."
	case digits < minPhoneDigits || digits > maxPhoneDigits || !validPhoneChars(in.Phone):
		fields["phone"] = "Please enter a valid phone number."
	}

	if in.Course != "" && catalog != nil {
		if _, ok := catalog.CourseByTitle(in.Course); !ok {
			fields["course"] = "Please pick a course from the list."
		}
	}

	switch {
	case in.Message == "":
		fields["message"] = "Please tell us how we can help."
	case len(in.Message) > maxMessageLength:
		fields["message"] = "Message is too long."
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func validPhoneChars(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) || r == '+' || r == ' ' || r == '-' || r == '(' || r == ')' {
			continue
		}
		return false
	}
	return true
}
