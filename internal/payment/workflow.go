package payment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/grtech/pilates/pkg/backend"
	"github.com/grtech/pilates/pkg/domain"
)

// Step identifies where the purchase workflow stopped.
type Step int

const (
	StepSession Step = iota
	StepIntent
	StepInitSheet
	StepPresent
	StepRecord
)

func (s Step) String() string {
	switch s {
	case StepSession:
		return "resolve session"
	case StepIntent:
		return "create intent"
	case StepInitSheet:
		return "init payment sheet"
	case StepPresent:
		return "present payment sheet"
	case StepRecord:
		return "record subscription"
	default:
		return "unknown"
	}
}

// StepError wraps a workflow failure with the step that produced it, so the
// user-facing alert can name where the purchase stopped.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

// Sessions supplies the auth session for the purchase.
type Sessions interface {
	Current() *domain.AuthSession
	Refresh(ctx context.Context) (*domain.AuthSession, error)
}

// IntentCreator obtains a client-secret for one payment attempt.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, accessToken string, req backend.IntentRequest) (*backend.Intent, error)
}

// Recorder inserts the subscription row after a successful payment.
type Recorder interface {
	InsertSubscription(ctx context.Context, userID, plan, status string) error
}

// Workflow runs the purchase state machine. It is strictly linear: every step
// either advances or aborts the attempt, and nothing before a failure is
// rolled back (there is nothing to roll back until the final insert).
type Workflow struct {
	sessions Sessions
	intents  IntentCreator
	sheet    Sheet
	recorder Recorder
	merchant string
	log      zerolog.Logger
}

// NewWorkflow wires the purchase workflow.
func NewWorkflow(sessions Sessions, intents IntentCreator, sheet Sheet, recorder Recorder, merchant string, log zerolog.Logger) *Workflow {
	return &Workflow{
		sessions: sessions,
		intents:  intents,
		sheet:    sheet,
		recorder: recorder,
		merchant: merchant,
		log:      log,
	}
}

// Subscribe purchases plan for the current user:
//
//	resolve session -> create intent -> init sheet -> present sheet -> record row
//
// A failure at any step aborts with a StepError and leaves no side effects,
// with one documented exception: if the final insert fails the user has been
// charged but no subscription row exists. That window is surfaced, not
// compensated; there is no retry at any step.
func (w *Workflow) Subscribe(ctx context.Context, plan domain.Plan) error {
	// Step 1: resolve a fresh session. Refresh first so the intent function
	// sees a token that will not expire mid-purchase; if refresh fails, the
	// cached session gets one chance before the attempt aborts.
	session, err := w.sessions.Refresh(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("session refresh failed before purchase, using cached session")
		session = w.sessions.Current()
	}
	if !session.Valid() || session.UserID == "" {
		return &StepError{Step: StepSession, Err: fmt.Errorf("no active session, sign in again")}
	}

	// Step 2: create the payment intent. Aborting here has no side effects.
	intent, err := w.intents.CreatePaymentIntent(ctx, session.AccessToken, backend.IntentRequest{
		Amount:   plan.AmountCents,
		Currency: domain.Currency,
		Plan:     plan.Name,
	})
	if err != nil {
		return &StepError{Step: StepIntent, Err: err}
	}

	// Step 3: configure the sheet. Still no side effects.
	if err := w.sheet.Init(SheetConfig{
		MerchantDisplayName:         w.merchant,
		ClientSecret:                intent.ClientSecret,
		AllowsDelayedPaymentMethods: true,
	}); err != nil {
		return &StepError{Step: StepInitSheet, Err: err}
	}

	// Step 4: present. Blocks until the user completes or abandons the
	// payment; cancellation aborts with no subscription row.
	if err := w.sheet.Present(ctx); err != nil {
		return &StepError{Step: StepPresent, Err: err}
	}

	// Step 5: the payment went through; record the active subscription.
	// A failure here is the known inconsistency window: charged, no row.
	if err := w.recorder.InsertSubscription(ctx, session.UserID, plan.Name, domain.StatusActive); err != nil {
		w.log.Error().Err(err).Str("plan", plan.Name).Str("user_id", session.UserID).
			Msg("payment succeeded but subscription insert failed")
		return &StepError{Step: StepRecord, Err: err}
	}

	w.log.Info().Str("plan", plan.Name).Str("user_id", session.UserID).Msg("subscription activated")
	return nil
}
