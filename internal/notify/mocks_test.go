package notify

import (
	"context"
	"fmt"
	"time"

	"claimrelay/internal/types"
)

// mockLogger implements types.Logger as a no-op for tests.
type mockLogger struct{}

func (l *mockLogger) Info(msg string, args ...any)  {}
func (l *mockLogger) Error(msg string, args ...any) {}
func (l *mockLogger) Warn(msg string, args ...any)  {}
func (l *mockLogger) With(args ...any) types.Logger { return l }

// mockClock implements types.Clock for deterministic testing.
type mockClock struct {
	now time.Time
}

func (c *mockClock) Now() time.Time { return c.now }

// entityKey identifies one stored entity in the mock store.
type entityKey struct {
	kind types.EntityKind
	id   int64
}

// mockStore implements types.EntityStore over an in-memory map and records
// every lookup for call-count assertions.
type mockStore struct {
	entities map[entityKey]*types.Entity
	err      error
	calls    int
}

func newMockStore(entities ...*types.Entity) *mockStore {
	s := &mockStore{entities: make(map[entityKey]*types.Entity)}
	for _, e := range entities {
		s.entities[entityKey{kind: e.Kind, id: e.ID}] = e
	}
	return s
}

func (s *mockStore) Lookup(ctx context.Context, kind types.EntityKind, id int64) (*types.Entity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entities[entityKey{kind: kind, id: id}], nil
}

// mockPhrases implements types.PhraseRenderer with deterministic output so
// tests can assert on rendered content without a full catalog.
type mockPhrases struct {
	err error
}

func (p *mockPhrases) Render(ctx context.Context, key string, params map[string]string, resellerID int64) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	switch key {
	case PhraseNewPosition:
		return "A new return position was added to the complaint", nil
	case PhraseStatusChanged:
		return fmt.Sprintf("Status changed from %s to %s", params["FROM"], params["TO"]), nil
	case PhraseEmailSubject:
		return "subject " + params[types.FieldComplaintNumber], nil
	case PhraseEmailBody:
		return "body " + params[types.FieldDifferences], nil
	default:
		return "", fmt.Errorf("unknown phrase %q", key)
	}
}

// mockMailConfig implements types.MailConfigSource.
type mockMailConfig struct {
	from          string
	recipients    []string
	fromErr       error
	recipientsErr error
}

func (m *mockMailConfig) FromAddress(ctx context.Context, resellerID int64) (string, error) {
	return m.from, m.fromErr
}

func (m *mockMailConfig) PermittedRecipients(ctx context.Context, resellerID int64, eventKey string) ([]string, error) {
	return m.recipients, m.recipientsErr
}

// mockEmail implements types.EmailSender and records every batch.
type mockEmail struct {
	batches [][]types.EmailMessage
	err     error
}

func (m *mockEmail) Send(ctx context.Context, batch []types.EmailMessage, resellerID, clientID int64, eventKey string) error {
	m.batches = append(m.batches, batch)
	return m.err
}

// mockSMS implements types.SMSSender with a canned outcome.
type mockSMS struct {
	sent   bool
	errMsg string
	calls  int
	lastTo string
}

func (m *mockSMS) Send(ctx context.Context, to string, resellerID, clientID int64, eventKey string, data types.TemplateData) (bool, string) {
	m.calls++
	m.lastTo = to
	return m.sent, m.errMsg
}

// mockMetrics implements types.DeliveryMetrics and counts observations.
type mockMetrics struct {
	dispatches map[string]int
	latencies  map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{
		dispatches: make(map[string]int),
		latencies:  make(map[string]int),
	}
}

func (m *mockMetrics) RecordDispatch(ctx context.Context, channel string, success bool) {
	m.dispatches[channel]++
}

func (m *mockMetrics) RecordLatency(ctx context.Context, channel string, d time.Duration) {
	m.latencies[channel]++
}

// mockAudit implements AuditRecorder and records every call.
type mockAudit struct {
	records int
	err     error
	lastRaw []byte
}

func (m *mockAudit) Record(ctx context.Context, event *types.ComplaintEvent, rawPayload []byte, result *types.NotificationResult) error {
	m.records++
	m.lastRaw = rawPayload
	return m.err
}

// Canonical test entities shared across the pipeline tests.
func testReseller() *types.Entity {
	return &types.Entity{ID: 10, Kind: types.EntitySeller, Name: "Acme Retail"}
}

func testClient() *types.Entity {
	return &types.Entity{
		ID:       20,
		Kind:     types.EntityClient,
		Type:     types.ContractorCustomer,
		Name:     "Jane Doe",
		SellerID: 10,
		Email:    "jane@example.com",
		Mobile:   "+4915112345678",
	}
}

func testCreator() *types.Entity {
	return &types.Entity{ID: 30, Kind: types.EntityCreator, Name: "Carl Creator"}
}

func testExpert() *types.Entity {
	return &types.Entity{ID: 40, Kind: types.EntityExpert, Name: "Erin Expert"}
}

// testEvent returns a fully-populated CHANGE event with a status transition.
func testEvent() *types.ComplaintEvent {
	return &types.ComplaintEvent{
		ResellerID:        10,
		Type:              types.NotificationChange,
		ClientID:          20,
		CreatorID:         30,
		ExpertID:          40,
		ComplaintID:       100,
		ComplaintNumber:   "RC-2026-001",
		ConsumptionID:     200,
		ConsumptionNumber: "CN-55",
		AgreementNumber:   "AG-77",
		Date:              "2026-08-01",
		Differences:       &types.StatusChange{From: 0, To: 1},
	}
}
