package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	"receipt_system/internal/domain"
	"receipt_system/internal/pagination"

	"github.com/google/uuid"
)

// MockRepository is an in-memory implementation of UserRepository and
// ReceiptRepository for testing.
type MockRepository struct {
	mu sync.Mutex

	// Data stores
	users    map[uint]*domain.User
	receipts map[uuid.UUID]*domain.Receipt
	nextID   uint

	// Error injection for testing error paths
	ErrorOnNextCall error
}

// NewMockRepository creates a new mock repository for testing.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:    make(map[uint]*domain.User),
		receipts: make(map[uuid.UUID]*domain.Receipt),
		nextID:   1,
	}
}

// Ensure MockRepository implements both repositories
var (
	_ UserRepository    = (*MockRepository)(nil)
	_ ReceiptRepository = (*MockRepository)(nil)
)

// checkError returns and clears any injected error.
func (m *MockRepository) checkError() error {
	if m.ErrorOnNextCall != nil {
		err := m.ErrorOnNextCall
		m.ErrorOnNextCall = nil
		return err
	}
	return nil
}

// Reset clears all data in the mock repository.
func (m *MockRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[uint]*domain.User)
	m.receipts = make(map[uuid.UUID]*domain.Receipt)
	m.nextID = 1
	m.ErrorOnNextCall = nil
}

// =============================================================================
// Users
// =============================================================================

func (m *MockRepository) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	u.ID = m.nextID
	m.nextID++
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *MockRepository) GetUserByID(_ context.Context, id uint) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *MockRepository) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockRepository) UpdateUserPassword(_ context.Context, id uint, hashedPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.HashedPassword = hashedPassword
	return nil
}

func (m *MockRepository) DeleteUser(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// =============================================================================
// Receipts
// =============================================================================

func (m *MockRepository) CreateReceipt(_ context.Context, r *domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	if _, ok := m.receipts[r.ID]; ok {
		return ErrDuplicate
	}
	stored := *r
	stored.Products = slices.Clone(r.Products)
	m.receipts[r.ID] = &stored
	return nil
}

func (m *MockRepository) GetReceipt(_ context.Context, id uuid.UUID, ownerID *uint) (*domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return nil, err
	}
	r, ok := m.receipts[id]
	if !ok || (ownerID != nil && r.OwnerID != *ownerID) {
		return nil, ErrNotFound
	}
	out := *r
	out.Products = slices.Clone(r.Products)
	return &out, nil
}

func (m *MockRepository) DeleteReceipt(_ context.Context, id uuid.UUID, ownerID *uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return err
	}
	r, ok := m.receipts[id]
	if !ok || (ownerID != nil && r.OwnerID != *ownerID) {
		return ErrNotFound
	}
	delete(m.receipts, id)
	return nil
}

// QueryReceipts snapshots the matching receipts in listing order.
func (m *MockRepository) QueryReceipts(filter ReceiptFilter) pagination.Query[domain.Receipt] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(); err != nil {
		return failingQuery{err: err}
	}
	var items []domain.Receipt
	for _, r := range m.receipts {
		if filter.Matches(*r) {
			items = append(items, *r)
		}
	}
	slices.SortFunc(items, func(a, b domain.Receipt) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
	return pagination.SliceQuery[domain.Receipt]{Items: items}
}

// failingQuery fails Count with an injected error.
type failingQuery struct {
	err error
}

func (q failingQuery) Count(context.Context) (int64, error) { return 0, q.err }

func (q failingQuery) Fetch(context.Context, int, int) ([]domain.Receipt, error) { return nil, q.err }
