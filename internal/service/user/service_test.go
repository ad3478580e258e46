package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"bookstore-api/internal/domain"
	tokenrepo "bookstore-api/internal/repository/token"
)

// memoryRepo is a lightweight in-memory user repository for tests.
type memoryRepo struct {
	nextID  int64
	byEmail map[string]domain.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: make(map[string]domain.User)}
}

func (r *memoryRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	key := strings.ToLower(u.Email)
	if _, exists := r.byEmail[key]; exists {
		return nil, domain.ErrAlreadyExists
	}
	r.nextID++
	u.ID = r.nextID
	r.byEmail[key] = u
	clone := u
	return &clone, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := u
	return &clone, nil
}

func (r *memoryRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.byEmail {
		out = append(out, u)
	}
	return out, nil
}

type memoryTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (r *memoryTokenRepo) Create(_ context.Context, token tokenrepo.Token) error {
	if _, exists := r.tokens[token.Token]; exists {
		return domain.ErrAlreadyExists
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := t
	return &clone, nil
}

func (r *memoryTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func newTestService() (*Service, *memoryRepo, *memoryTokenRepo) {
	repo := newMemoryRepo()
	tokens := newMemoryTokenRepo()
	// MinCost keeps the bcrypt work factor cheap for tests.
	return New(repo, tokens, 4, nil), repo, tokens
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		input SignupInput
		field string
	}{
		{"missing email", SignupInput{Password: "Abcdefg1"}, "email"},
		{"bad email", SignupInput{Email: "nope", Password: "Abcdefg1"}, "email"},
		{"short password", SignupInput{Email: "a@b.com", Password: "Ab1"}, "password"},
		{"no uppercase", SignupInput{Email: "a@b.com", Password: "abcdefg1"}, "password"},
		{"no digit", SignupInput{Email: "a@b.com", Password: "Abcdefgh"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.input)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSignupNormalizesEmailAndAssignsCustomerRole(t *testing.T) {
	svc, _, _ := newTestService()
	u, err := svc.Signup(context.Background(), SignupInput{
		Email:     "  Reader@Example.COM ",
		Password:  "Abcdefg1",
		FirstName: "Pat",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "reader@example.com" {
		t.Fatalf("email = %q, want normalized lowercase", u.Email)
	}
	if u.Role != domain.RoleCustomer {
		t.Fatalf("role = %q, want %q", u.Role, domain.RoleCustomer)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	in := SignupInput{Email: "reader@example.com", Password: "Abcdefg1"}
	if _, err := svc.Signup(ctx, in); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	_, err := svc.Signup(ctx, in)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error on duplicate, got %v", err)
	}
}

func TestLoginAndLookup(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, SignupInput{Email: "reader@example.com", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	u, access, refresh, err := svc.Login(ctx, "reader@example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if access == "" || refresh == "" || access == refresh {
		t.Fatalf("bad token pair: access=%q refresh=%q", access, refresh)
	}

	got, err := svc.LookupByToken(ctx, access)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("lookup returned user %d, want %d", got.ID, u.ID)
	}

	// Refresh tokens never grant access.
	if _, err := svc.LookupByToken(ctx, refresh); !domain.IsAuthorization(err) {
		t.Fatalf("expected authorization error for refresh token, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, SignupInput{Email: "reader@example.com", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "reader@example.com", "WrongPass1"); !domain.IsAuthorization(err) {
		t.Fatalf("expected authorization error for wrong password, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@example.com", "Abcdefg1"); !domain.IsAuthorization(err) {
		t.Fatalf("expected authorization error for unknown email, got %v", err)
	}
}

func TestLookupRejectsExpiredToken(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, SignupInput{Email: "reader@example.com", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	_, access, _, err := svc.Login(ctx, "reader@example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	expired := tokens.tokens[access]
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	tokens.tokens[access] = expired

	if _, err := svc.LookupByToken(ctx, access); !domain.IsAuthorization(err) {
		t.Fatalf("expected authorization error for expired token, got %v", err)
	}
	if _, ok := tokens.tokens[access]; ok {
		t.Fatal("expired token was not removed")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, SignupInput{Email: "reader@example.com", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	_, access, _, err := svc.Login(ctx, "reader@example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	svc.Logout(ctx, access)
	if _, err := svc.LookupByToken(ctx, access); !domain.IsAuthorization(err) {
		t.Fatalf("expected authorization error after logout, got %v", err)
	}
}
