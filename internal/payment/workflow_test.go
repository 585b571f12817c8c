package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/grtech/pilates/pkg/backend"
	"github.com/grtech/pilates/pkg/domain"
)

type fakeSessions struct {
	current    *domain.AuthSession
	refreshErr error
	refreshed  *domain.AuthSession
}

func (f *fakeSessions) Current() *domain.AuthSession { return f.current }
func (f *fakeSessions) Refresh(context.Context) (*domain.AuthSession, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshed, nil
}

type fakeIntents struct {
	err    error
	calls  int
	gotReq backend.IntentRequest
}

func (f *fakeIntents) CreatePaymentIntent(_ context.Context, _ string, req backend.IntentRequest) (*backend.Intent, error) {
	f.calls++
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &backend.Intent{ClientSecret: "pi_secret"}, nil
}

type fakeSheet struct {
	initErr    error
	presentErr error
	inits      int
	presents   int
	gotCfg     SheetConfig
}

func (f *fakeSheet) Init(cfg SheetConfig) error {
	f.inits++
	f.gotCfg = cfg
	return f.initErr
}

func (f *fakeSheet) Present(context.Context) error {
	f.presents++
	return f.presentErr
}

type fakeRecorder struct {
	err     error
	inserts []string // "userID/plan/status"
}

func (f *fakeRecorder) InsertSubscription(_ context.Context, userID, plan, status string) error {
	f.inserts = append(f.inserts, fmt.Sprintf("%s/%s/%s", userID, plan, status))
	return f.err
}

func liveSession() *domain.AuthSession {
	return &domain.AuthSession{UserID: "u1", AccessToken: "tok"}
}

func newTestWorkflow(sessions *fakeSessions, intents *fakeIntents, sheet *fakeSheet, rec *fakeRecorder) *Workflow {
	return NewWorkflow(sessions, intents, sheet, rec, "Pilates Studio SLRC", zerolog.Nop())
}

func stepOf(t *testing.T, err error) Step {
	t.Helper()
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("not a StepError: %v", err)
	}
	return stepErr.Step
}

func TestSubscribeHappyPath(t *testing.T) {
	sessions := &fakeSessions{refreshed: liveSession()}
	intents := &fakeIntents{}
	sheet := &fakeSheet{}
	rec := &fakeRecorder{}
	w := newTestWorkflow(sessions, intents, sheet, rec)

	plan := *domain.PlanByName("Mensual")
	if err := w.Subscribe(context.Background(), plan); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if intents.gotReq.Amount != 99900 || intents.gotReq.Currency != domain.Currency || intents.gotReq.Plan != "Mensual" {
		t.Fatalf("intent request = %+v", intents.gotReq)
	}
	if sheet.gotCfg.ClientSecret != "pi_secret" || sheet.gotCfg.MerchantDisplayName != "Pilates Studio SLRC" {
		t.Fatalf("sheet config = %+v", sheet.gotCfg)
	}
	if !sheet.gotCfg.AllowsDelayedPaymentMethods {
		t.Fatal("delayed payment methods not allowed")
	}
	if len(rec.inserts) != 1 || rec.inserts[0] != "u1/Mensual/active" {
		t.Fatalf("inserts = %v", rec.inserts)
	}
}

func TestSubscribeNoSession(t *testing.T) {
	sessions := &fakeSessions{refreshErr: errors.New("network down")}
	intents := &fakeIntents{}
	sheet := &fakeSheet{}
	rec := &fakeRecorder{}
	w := newTestWorkflow(sessions, intents, sheet, rec)

	err := w.Subscribe(context.Background(), domain.Plans[0])
	if got := stepOf(t, err); got != StepSession {
		t.Fatalf("step = %v", got)
	}
	if intents.calls != 0 || sheet.presents != 0 || len(rec.inserts) != 0 {
		t.Fatal("aborted attempt had side effects")
	}
}

func TestSubscribeRefreshFailureFallsBackToCached(t *testing.T) {
	sessions := &fakeSessions{refreshErr: errors.New("refresh down"), current: liveSession()}
	intents := &fakeIntents{}
	sheet := &fakeSheet{}
	rec := &fakeRecorder{}
	w := newTestWorkflow(sessions, intents, sheet, rec)

	if err := w.Subscribe(context.Background(), domain.Plans[0]); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if len(rec.inserts) != 1 {
		t.Fatalf("inserts = %v", rec.inserts)
	}
}

func TestSubscribeIntentFailure(t *testing.T) {
	sessions := &fakeSessions{refreshed: liveSession()}
	intents := &fakeIntents{err: errors.New("function rejected")}
	sheet := &fakeSheet{}
	rec := &fakeRecorder{}
	w := newTestWorkflow(sessions, intents, sheet, rec)

	err := w.Subscribe(context.Background(), domain.Plans[0])
	if got := stepOf(t, err); got != StepIntent {
		t.Fatalf("step = %v", got)
	}
	if sheet.inits != 0 || sheet.presents != 0 {
		t.Fatal("sheet touched after intent failure")
	}
	if len(rec.inserts) != 0 {
		t.Fatal("subscription recorded without a payment")
	}
}

func TestSubscribePresentCanceled(t *testing.T) {
	sessions := &fakeSessions{refreshed: liveSession()}
	intents := &fakeIntents{}
	sheet := &fakeSheet{presentErr: ErrCanceled}
	rec := &fakeRecorder{}
	w := newTestWorkflow(sessions, intents, sheet, rec)

	err := w.Subscribe(context.Background(), domain.Plans[0])
	if got := stepOf(t, err); got != StepPresent {
		t.Fatalf("step = %v", got)
	}
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("ErrCanceled not unwrappable from %v", err)
	}
	if len(rec.inserts) != 0 {
		t.Fatal("canceled payment recorded a subscription")
	}
}

func TestSubscribeRecordFailure(t *testing.T) {
	sessions := &fakeSessions{refreshed: liveSession()}
	intents := &fakeIntents{}
	sheet := &fakeSheet{}
	rec := &fakeRecorder{err: errors.New("insert rejected")}
	w := newTestWorkflow(sessions, intents, sheet, rec)

	err := w.Subscribe(context.Background(), domain.Plans[0])
	if got := stepOf(t, err); got != StepRecord {
		t.Fatalf("step = %v", got)
	}
	// The attempt was made exactly once; there is no retry.
	if len(rec.inserts) != 1 {
		t.Fatalf("inserts = %v", rec.inserts)
	}
}

func TestStepErrorNamesStep(t *testing.T) {
	err := &StepError{Step: StepIntent, Err: errors.New("boom")}
	if got := err.Error(); got != "create intent: boom" {
		t.Fatalf("Error() = %q", got)
	}
}
