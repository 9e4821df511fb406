package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/compliancehub/identity-service/internal/core/domain"
	"github.com/compliancehub/identity-service/internal/core/ports"
	"github.com/compliancehub/identity-service/internal/infrastructure/hash"
	"github.com/compliancehub/identity-service/internal/infrastructure/token"
	"github.com/compliancehub/identity-service/pkg/logger"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = "id-" + strconv.Itoa(r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, *cloneUser(u))
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubRevocationList struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newStubRevocationList() *stubRevocationList {
	return &stubRevocationList{revoked: make(map[string]bool)}
}

func (l *stubRevocationList) Revoke(_ context.Context, accountID string, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[accountID] = true
	return nil
}

func (l *stubRevocationList) IsRevoked(_ context.Context, accountID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revoked[accountID], nil
}

type stubAuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *stubAuditSink) Record(event domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stubAuditSink) actions() []domain.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}

func newTestAuthService(repo *stubUserRepo, revoked *stubRevocationList, audit *stubAuditSink) *AuthService {
	return NewAuthService(
		repo,
		hash.NewBcryptHasher(bcrypt.MinCost),
		token.NewJWTIssuer("secret", time.Minute, time.Hour),
		revoked,
		audit,
		NewPasswordPolicy(8),
		logger.Init(logger.Options{Level: "error"}),
	)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubRevocationList(), &stubAuditSink{})

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Str0ngPass!",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if user.Role != domain.RoleEngineer {
		t.Fatalf("expected default role engineer, got %s", user.Role)
	}
	if user.IsStaff {
		t.Fatalf("engineer must not be staff")
	}
	if user.PasswordHash == "Str0ngPass!" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Str0ngPass!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_AdminIsStaff(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubRevocationList(), &stubAuditSink{})

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "root",
		Email:    "root@example.com",
		Password: "Sup3rSecret",
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !user.IsStaff {
		t.Fatalf("admin role must grant staff")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubRevocationList(), &stubAuditSink{})

	cases := []struct {
		name  string
		input ports.RegisterInput
		want  error
	}{
		{"missing username", ports.RegisterInput{Email: "a@x.com", Password: "GoodPass1!"}, domain.ErrMissingFields},
		{"missing email", ports.RegisterInput{Username: "a", Password: "GoodPass1!"}, domain.ErrMissingFields},
		{"missing password", ports.RegisterInput{Username: "a", Email: "a@x.com"}, domain.ErrMissingFields},
		{"bad role", ports.RegisterInput{Username: "a", Email: "a@x.com", Password: "GoodPass1!", Role: "wizard"}, domain.ErrInvalidRole},
		{"short password", ports.RegisterInput{Username: "a", Email: "a@x.com", Password: "short1"}, domain.ErrWeakPassword},
		{"numeric password", ports.RegisterInput{Username: "a", Email: "a@x.com", Password: "1234567890"}, domain.ErrWeakPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if n := len(repo.users); n != 0 {
		t.Fatalf("no account should have been created, store has %d", n)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubRevocationList(), &stubAuditSink{})

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "GoodPass1!"}); err != nil {
		t.Fatalf("seed register failed: %v", err)
	}

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Email: "other@example.com", Password: "GoodPass1!"}); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "other", Email: "bob@example.com", Password: "GoodPass1!"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if n := len(repo.users); n != 1 {
		t.Fatalf("expected store unchanged at 1 account, got %d", n)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	audit := &stubAuditSink{}
	svc := newTestAuthService(repo, newStubRevocationList(), audit)

	created, err := svc.Register(context.Background(), ports.RegisterInput{Username: "carol", Email: "carol@example.com", Password: "s3cretPass"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	pair, user, err := svc.Login(context.Background(), "carol", "s3cretPass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected non-empty token pair")
	}
	if user.ID != created.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	issuer := token.NewJWTIssuer("secret", time.Minute, time.Hour)
	claims, err := issuer.Verify(pair.Access, ports.TokenKindAccess)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.UserID != created.ID {
		t.Fatalf("expected sub %s, got %s", created.ID, claims.UserID)
	}
	if _, err := issuer.Verify(pair.Refresh, ports.TokenKindRefresh); err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}
}

func TestAuthService_Login_FailureModesIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubRevocationList(), &stubAuditSink{})

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Email: "dave@example.com", Password: "goodPass12"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, badPass := svc.Login(context.Background(), "dave", "wrongPass12")
	_, _, noUser := svc.Login(context.Background(), "ghost", "whatever123")

	if !errors.Is(badPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", badPass)
	}
	if !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", noUser)
	}
}

func TestAuthService_Refresh_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubRevocationList(), &stubAuditSink{})

	created, _ := svc.Register(context.Background(), ports.RegisterInput{Username: "erin", Email: "erin@example.com", Password: "goodPass12"})
	pair, _, err := svc.Login(context.Background(), "erin", "goodPass12")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	access, err := svc.Refresh(context.Background(), pair.Refresh)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	issuer := token.NewJWTIssuer("secret", time.Minute, time.Hour)
	claims, err := issuer.Verify(access, ports.TokenKindAccess)
	if err != nil {
		t.Fatalf("new access token invalid: %v", err)
	}
	if claims.UserID != created.ID {
		t.Fatalf("expected sub %s, got %s", created.ID, claims.UserID)
	}
}

func TestAuthService_Refresh_RejectsGarbage(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubRevocationList(), &stubAuditSink{})

	if _, err := svc.Refresh(context.Background(), "invalid_refresh_token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubRevocationList(), &stubAuditSink{})

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "fred", Email: "fred@example.com", Password: "goodPass12"})
	pair, _, _ := svc.Login(context.Background(), "fred", "goodPass12")

	if _, err := svc.Refresh(context.Background(), pair.Access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("access token must not be exchangeable, got %v", err)
	}
}

func TestAuthService_Refresh_RevokedAccount(t *testing.T) {
	repo := newStubUserRepo()
	revoked := newStubRevocationList()
	svc := newTestAuthService(repo, revoked, &stubAuditSink{})

	created, _ := svc.Register(context.Background(), ports.RegisterInput{Username: "gina", Email: "gina@example.com", Password: "goodPass12"})
	pair, _, _ := svc.Login(context.Background(), "gina", "goodPass12")

	_ = revoked.Revoke(context.Background(), created.ID, time.Hour)

	if _, err := svc.Refresh(context.Background(), pair.Refresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for revoked account, got %v", err)
	}
}

func TestAuthService_Refresh_DeletedAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubRevocationList(), &stubAuditSink{})

	created, _ := svc.Register(context.Background(), ports.RegisterInput{Username: "hank", Email: "hank@example.com", Password: "goodPass12"})
	pair, _, _ := svc.Login(context.Background(), "hank", "goodPass12")

	_ = repo.Delete(context.Background(), created.ID)

	if _, err := svc.Refresh(context.Background(), pair.Refresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for deleted account, got %v", err)
	}
}

func TestAuthService_AuditEvents(t *testing.T) {
	repo := newStubUserRepo()
	audit := &stubAuditSink{}
	svc := newTestAuthService(repo, newStubRevocationList(), audit)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "ivy", Email: "ivy@example.com", Password: "goodPass12"})
	_, _, _ = svc.Login(context.Background(), "ivy", "wrongPass99")
	_, _, _ = svc.Login(context.Background(), "ivy", "goodPass12")

	want := []domain.AuditAction{domain.AuditRegistered, domain.AuditLoginFailed, domain.AuditLoginSucceeded}
	got := audit.actions()
	if len(got) != len(want) {
		t.Fatalf("expected %d audit events, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
