package identity_test

import (
	"context"
	"database/sql"

	identity "github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/federation"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockRepositoryManager implements identity.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

// RunInTx invokes the closure with a zero transaction so the handlers
// exercise the repository mocks; the closure's error propagates like a
// rolled back transaction would.
func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if err := args.Error(0); err != nil {
		return err
	}
	var tx bun.Tx
	return f(ctx, tx)
}

func (m *MockRepositoryManager) Users() identity.Users {
	args := m.Called()
	return args.Get(0).(identity.Users)
}

func (m *MockRepositoryManager) Profiles() identity.Profiles {
	args := m.Called()
	return args.Get(0).(identity.Profiles)
}

func (m *MockRepositoryManager) PendingSignups() identity.PendingSignups {
	args := m.Called()
	return args.Get(0).(identity.PendingSignups)
}

func (m *MockRepositoryManager) ConfirmationTokens() identity.ConfirmationTokens {
	args := m.Called()
	return args.Get(0).(identity.ConfirmationTokens)
}

func (m *MockRepositoryManager) PasswordResets() identity.PasswordResets {
	args := m.Called()
	return args.Get(0).(identity.PasswordResets)
}

// MockUsers implements identity.Users. Embedding the interface keeps the
// mock focused on the methods the handlers actually call.
type MockUsers struct {
	mock.Mock
	identity.Users
}

func (m *MockUsers) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*identity.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*identity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*identity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*identity.User, error) {
	args := m.Called(ctx, tx, email)
	if u, ok := args.Get(0).(*identity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, record *identity.User, criteria ...repository.InsertCriteria) (*identity.User, error) {
	args := m.Called(ctx, record)
	if u, ok := args.Get(0).(*identity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// CreateTx echoes the inserted record when the test does not stub a
// replacement, the way the real repository returns the persisted row.
func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *identity.User, criteria ...repository.InsertCriteria) (*identity.User, error) {
	args := m.Called(ctx, tx, record)
	if u, ok := args.Get(0).(*identity.User); ok {
		return u, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return record, nil
}

func (m *MockUsers) SetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tx, id)
	if u, ok := args.Get(0).(*identity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockProfiles implements identity.Profiles
type MockProfiles struct {
	mock.Mock
	identity.Profiles
}

func (m *MockProfiles) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*identity.Profile, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*identity.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfiles) CreateTx(ctx context.Context, tx bun.IDB, record *identity.Profile, criteria ...repository.InsertCriteria) (*identity.Profile, error) {
	args := m.Called(ctx, tx, record)
	if p, ok := args.Get(0).(*identity.Profile); ok {
		return p, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return record, nil
}

// MockPendingSignups implements identity.PendingSignups
type MockPendingSignups struct {
	mock.Mock
	identity.PendingSignups
}

func (m *MockPendingSignups) CreateTx(ctx context.Context, tx bun.IDB, record *identity.PendingSignup, criteria ...repository.InsertCriteria) (*identity.PendingSignup, error) {
	args := m.Called(ctx, tx, record)
	if p, ok := args.Get(0).(*identity.PendingSignup); ok {
		return p, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return record, nil
}

func (m *MockPendingSignups) LookupTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*identity.PendingSignup, error) {
	args := m.Called(ctx, tx, id)
	if p, ok := args.Get(0).(*identity.PendingSignup); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPendingSignups) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*identity.PendingSignup, error) {
	args := m.Called(ctx, tx, id)
	if p, ok := args.Get(0).(*identity.PendingSignup); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockConfirmationTokens implements identity.ConfirmationTokens
type MockConfirmationTokens struct {
	mock.Mock
	identity.ConfirmationTokens
}

func (m *MockConfirmationTokens) CreateTx(ctx context.Context, tx bun.IDB, record *identity.ConfirmationToken, criteria ...repository.InsertCriteria) (*identity.ConfirmationToken, error) {
	args := m.Called(ctx, tx, record)
	if t, ok := args.Get(0).(*identity.ConfirmationToken); ok {
		return t, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return record, nil
}

func (m *MockConfirmationTokens) GetByTokenHashTx(ctx context.Context, tx bun.IDB, hash string) (*identity.ConfirmationToken, error) {
	args := m.Called(ctx, tx, hash)
	if t, ok := args.Get(0).(*identity.ConfirmationToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockConfirmationTokens) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*identity.ConfirmationToken, error) {
	args := m.Called(ctx, tx, id)
	if t, ok := args.Get(0).(*identity.ConfirmationToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPasswordResets implements identity.PasswordResets
type MockPasswordResets struct {
	mock.Mock
	identity.PasswordResets
}

func (m *MockPasswordResets) CreateTx(ctx context.Context, tx bun.IDB, record *identity.PasswordResetToken, criteria ...repository.InsertCriteria) (*identity.PasswordResetToken, error) {
	args := m.Called(ctx, tx, record)
	if t, ok := args.Get(0).(*identity.PasswordResetToken); ok {
		return t, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return record, nil
}

func (m *MockPasswordResets) GetByTokenHashTx(ctx context.Context, tx bun.IDB, hash string) (*identity.PasswordResetToken, error) {
	args := m.Called(ctx, tx, hash)
	if t, ok := args.Get(0).(*identity.PasswordResetToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPasswordResets) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*identity.PasswordResetToken, error) {
	args := m.Called(ctx, tx, id)
	if t, ok := args.Get(0).(*identity.PasswordResetToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockNotifier implements identity.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendConfirmation(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

// MockTokenService implements identity.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueSession(userID uuid.UUID) (*identity.SessionTokens, error) {
	args := m.Called(userID)
	if s, ok := args.Get(0).(*identity.SessionTokens); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenService) Validate(raw string) (*identity.SessionClaims, error) {
	args := m.Called(raw)
	if c, ok := args.Get(0).(*identity.SessionClaims); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockProvider implements federation.Provider
type MockProvider struct {
	mock.Mock
	ProviderName string
}

func (m *MockProvider) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}

func (m *MockProvider) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*federation.Profile, error) {
	args := m.Called(ctx, code)
	if p, ok := args.Get(0).(*federation.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
