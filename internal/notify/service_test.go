package notify

import (
	"context"
	"errors"
	"testing"

	"claimrelay/internal/locale"
	"claimrelay/internal/types"
)

type serviceFixture struct {
	service *Service
	store   *mockStore
	email   *mockEmail
	sms     *mockSMS
	audit   *mockAudit
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		store: newMockStore(testReseller(), testClient(), testCreator(), testExpert()),
		email: &mockEmail{},
		sms:   &mockSMS{sent: true},
		audit: &mockAudit{},
	}
	f.service = NewService(ServiceConfig{
		Resolver: NewResolver(f.store),
		Builder:  NewTemplateBuilder(&mockPhrases{}, locale.NewStatusTable()),
		Dispatcher: NewDispatcher(DispatcherConfig{
			MailConfig: &mockMailConfig{
				from:       "complaints@acme.example",
				recipients: []string{"ops@acme.example"},
			},
			Phrases: &mockPhrases{},
			Email:   f.email,
			SMS:     f.sms,
			Logger:  &mockLogger{},
		}),
		Audit:  f.audit,
		Logger: &mockLogger{},
	})
	return f
}

func TestService_ChangeEventFullOutcome(t *testing.T) {
	f := newServiceFixture()

	result, err := f.service.Notify(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.EmployeeEmail || !result.ClientEmail || !result.ClientSMS.Sent {
		t.Errorf("expected all channels true, got %+v", result)
	}
	if result.ClientSMS.Message != "" {
		t.Errorf("expected empty sms message, got %q", result.ClientSMS.Message)
	}
	if f.audit.records != 1 {
		t.Errorf("expected 1 audit record, got %d", f.audit.records)
	}
}

func TestService_InvalidPayloadCallsNoCollaborators(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.Notify(context.Background(), map[string]any{"notificationType": float64(2)})
	if code := appErrCode(t, err); code != types.ErrCodeValidationMissingReseller {
		t.Fatalf("expected missing reseller, got %s", code)
	}

	if f.store.calls != 0 {
		t.Errorf("store must not be called, got %d lookups", f.store.calls)
	}
	if len(f.email.batches) != 0 || f.sms.calls != 0 || f.audit.records != 0 {
		t.Error("no collaborator may be invoked on validation failure")
	}
}

func TestService_TemplateFailureAbortsBeforeDispatch(t *testing.T) {
	f := newServiceFixture()

	payload := validPayload()
	delete(payload, "complaintNumber")

	_, err := f.service.Notify(context.Background(), payload)
	if code := appErrCode(t, err); code != types.ErrCodeTemplateIncomplete {
		t.Fatalf("expected template_incomplete, got %s", code)
	}
	if len(f.email.batches) != 0 || f.sms.calls != 0 {
		t.Error("dispatch must not run when the template is incomplete")
	}
}

func TestService_RepeatedInvocationsAreIndependent(t *testing.T) {
	f := newServiceFixture()

	first, err := f.service.Notify(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("first invocation: %v", err)
	}
	second, err := f.service.Notify(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("second invocation: %v", err)
	}

	if *first != *second {
		t.Errorf("identical inputs must produce identical results: %+v vs %+v", first, second)
	}
	if f.audit.records != 2 {
		t.Errorf("expected 2 audit records, got %d", f.audit.records)
	}
}

func TestService_AuditFailureIsAbsorbed(t *testing.T) {
	f := newServiceFixture()
	f.audit.err = errors.New("insert failed")

	result, err := f.service.Notify(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("audit failures must not surface: %v", err)
	}
	if !result.EmployeeEmail {
		t.Errorf("result must stand despite audit failure: %+v", result)
	}
}
