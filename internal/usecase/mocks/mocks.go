package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio/internal/domain"
)

// MockConnectionDirectory is a mock implementation of usecase.ConnectionDirectory.
type MockConnectionDirectory struct {
	mu          sync.RWMutex
	connections map[string]*domain.Connection
	order       []string

	ListFunc    func(ctx context.Context) ([]*domain.Connection, error)
	GetByIDFunc func(ctx context.Context, id string) (*domain.Connection, error)
	CreateFunc  func(ctx context.Context, conn *domain.Connection) error
	DeleteFunc  func(ctx context.Context, id string) error
}

func NewMockConnectionDirectory() *MockConnectionDirectory {
	return &MockConnectionDirectory{connections: make(map[string]*domain.Connection)}
}

func (m *MockConnectionDirectory) List(ctx context.Context) ([]*domain.Connection, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	conns := make([]*domain.Connection, 0, len(m.order))
	for _, id := range m.order {
		conns = append(conns, m.connections[id])
	}
	return conns, nil
}

func (m *MockConnectionDirectory) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if conn, ok := m.connections[id]; ok {
		return conn, nil
	}
	return nil, domain.ErrConnectionNotFound
}

func (m *MockConnectionDirectory) Create(ctx context.Context, conn *domain.Connection) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, conn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn.ID] = conn
	m.order = append(m.order, conn.ID)
	return nil
}

func (m *MockConnectionDirectory) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.connections[id]; !ok {
		return domain.ErrConnectionNotFound
	}
	delete(m.connections, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// MockExchangeProvider is a mock implementation of usecase.ExchangeProvider.
type MockExchangeProvider struct {
	BalancesFunc func(ctx context.Context, conn *domain.Connection) (map[string]decimal.Decimal, error)
	TradesFunc   func(ctx context.Context, conn *domain.Connection) ([]domain.Transaction, error)
}

func NewMockExchangeProvider() *MockExchangeProvider {
	return &MockExchangeProvider{}
}

func (m *MockExchangeProvider) Balances(ctx context.Context, conn *domain.Connection) (map[string]decimal.Decimal, error) {
	if m.BalancesFunc != nil {
		return m.BalancesFunc(ctx, conn)
	}
	return map[string]decimal.Decimal{}, nil
}

func (m *MockExchangeProvider) Trades(ctx context.Context, conn *domain.Connection) ([]domain.Transaction, error) {
	if m.TradesFunc != nil {
		return m.TradesFunc(ctx, conn)
	}
	return nil, nil
}

// MockManualLedgerRepository is a mock implementation of usecase.ManualLedgerRepository.
type MockManualLedgerRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.ManualRecord
	order   []string

	CreateFunc  func(ctx context.Context, rec *domain.ManualRecord) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.ManualRecord, error)
	UpdateFunc  func(ctx context.Context, rec *domain.ManualRecord) error
	DeleteFunc  func(ctx context.Context, id string) error
	ListFunc    func(ctx context.Context) ([]*domain.ManualRecord, error)
}

func NewMockManualLedgerRepository() *MockManualLedgerRepository {
	return &MockManualLedgerRepository{records: make(map[string]*domain.ManualRecord)}
}

func (m *MockManualLedgerRepository) Create(ctx context.Context, rec *domain.ManualRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	return nil
}

func (m *MockManualLedgerRepository) GetByID(ctx context.Context, id string) (*domain.ManualRecord, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.records[id]; ok {
		return rec, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (m *MockManualLedgerRepository) Update(ctx context.Context, rec *domain.ManualRecord) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MockManualLedgerRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockManualLedgerRepository) List(ctx context.Context) ([]*domain.ManualRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := make([]*domain.ManualRecord, 0, len(m.order))
	for _, id := range m.order {
		recs = append(recs, m.records[id])
	}
	return recs, nil
}

// MockPriceSource is a mock implementation of usecase.PriceSource.
type MockPriceSource struct {
	PricesFunc func(ctx context.Context) (map[string]decimal.Decimal, error)
}

func NewMockPriceSource() *MockPriceSource {
	return &MockPriceSource{}
}

func (m *MockPriceSource) Prices(ctx context.Context) (map[string]decimal.Decimal, error) {
	if m.PricesFunc != nil {
		return m.PricesFunc(ctx)
	}
	return map[string]decimal.Decimal{}, nil
}

// MockSnapshotRepository is a mock implementation of usecase.SnapshotRepository.
type MockSnapshotRepository struct {
	mu        sync.RWMutex
	snapshots []*domain.PortfolioSnapshot

	CreateFunc       func(ctx context.Context, snap *domain.PortfolioSnapshot) error
	ListAscFunc      func(ctx context.Context) ([]*domain.PortfolioSnapshot, error)
	LatestBeforeFunc func(ctx context.Context, at time.Time) (*domain.PortfolioSnapshot, error)
}

func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{}
}

func (m *MockSnapshotRepository) Create(ctx context.Context, snap *domain.PortfolioSnapshot) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, snap)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snap)
	return nil
}

func (m *MockSnapshotRepository) ListAsc(ctx context.Context) ([]*domain.PortfolioSnapshot, error) {
	if m.ListAscFunc != nil {
		return m.ListAscFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.PortfolioSnapshot(nil), m.snapshots...), nil
}

func (m *MockSnapshotRepository) LatestBefore(ctx context.Context, at time.Time) (*domain.PortfolioSnapshot, error) {
	if m.LatestBeforeFunc != nil {
		return m.LatestBeforeFunc(ctx, at)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.PortfolioSnapshot
	for _, snap := range m.snapshots {
		if !snap.TakenAt.After(at) && (latest == nil || snap.TakenAt.After(latest.TakenAt)) {
			latest = snap
		}
	}
	return latest, nil
}

// MockAlertRepository is a mock implementation of usecase.AlertRepository.
type MockAlertRepository struct {
	mu     sync.RWMutex
	alerts map[string]*domain.PriceAlert
	order  []string

	CreateFunc     func(ctx context.Context, alert *domain.PriceAlert) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.PriceAlert, error)
	UpdateFunc     func(ctx context.Context, alert *domain.PriceAlert) error
	DeleteFunc     func(ctx context.Context, id string) error
	ListFunc       func(ctx context.Context) ([]*domain.PriceAlert, error)
	ListActiveFunc func(ctx context.Context) ([]*domain.PriceAlert, error)
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{alerts: make(map[string]*domain.PriceAlert)}
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *domain.PriceAlert) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, alert)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[alert.ID] = alert
	m.order = append(m.order, alert.ID)
	return nil
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id string) (*domain.PriceAlert, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if alert, ok := m.alerts[id]; ok {
		return alert, nil
	}
	return nil, domain.ErrAlertNotFound
}

func (m *MockAlertRepository) Update(ctx context.Context, alert *domain.PriceAlert) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, alert)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.alerts[alert.ID]; !ok {
		return domain.ErrAlertNotFound
	}
	m.alerts[alert.ID] = alert
	return nil
}

func (m *MockAlertRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.alerts[id]; !ok {
		return domain.ErrAlertNotFound
	}
	delete(m.alerts, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockAlertRepository) List(ctx context.Context) ([]*domain.PriceAlert, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	alerts := make([]*domain.PriceAlert, 0, len(m.order))
	for _, id := range m.order {
		alerts = append(alerts, m.alerts[id])
	}
	return alerts, nil
}

func (m *MockAlertRepository) ListActive(ctx context.Context) ([]*domain.PriceAlert, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	alerts := make([]*domain.PriceAlert, 0, len(m.order))
	for _, id := range m.order {
		if m.alerts[id].Active {
			alerts = append(alerts, m.alerts[id])
		}
	}
	return alerts, nil
}

// MockCache is an in-memory mock implementation of usecase.Cache. TTLs are
// recorded but not enforced.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Contains reports whether a key currently holds a value.
func (m *MockCache) Contains(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[key]
	return ok
}

// MockIDGenerator is a mock implementation of usecase.IDGenerator. It returns
// sequential ids unless GenerateFunc is set.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return "id-" + strconv.Itoa(m.next)
}

// MockSecretCipher is a mock implementation of usecase.SecretCipher that
// reversibly tags the plaintext.
type MockSecretCipher struct {
	EncryptFunc func(plaintext string) (string, error)
	DecryptFunc func(ciphertext string) (string, error)
}

func NewMockSecretCipher() *MockSecretCipher {
	return &MockSecretCipher{}
}

func (m *MockSecretCipher) Encrypt(plaintext string) (string, error) {
	if m.EncryptFunc != nil {
		return m.EncryptFunc(plaintext)
	}
	return "enc:" + plaintext, nil
}

func (m *MockSecretCipher) Decrypt(ciphertext string) (string, error) {
	if m.DecryptFunc != nil {
		return m.DecryptFunc(ciphertext)
	}
	if len(ciphertext) >= 4 && ciphertext[:4] == "enc:" {
		return ciphertext[4:], nil
	}
	return ciphertext, nil
}
