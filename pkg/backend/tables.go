package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/grtech/pilates/pkg/domain"
)

// Table reads and writes go through the backend's REST facade, which maps
// query parameters onto relational filters (col=eq.value, order, limit).
// Every read is scoped by the caller's user id; row-level policies on the
// server are the real enforcement, these filters just shape the result.

const restPrefix = "/rest/v1/"

// preferMinimal asks the facade not to echo inserted rows back.
var preferMinimal = map[string]string{"Prefer": "return=minimal"}

// ListSessions returns the full class agenda ordered by date then time.
func (c *Client) ListSessions(ctx context.Context) ([]domain.ClassSession, error) {
	params := url.Values{}
	params.Set("select", "id,title,date,time,spots")
	params.Set("order", "date.asc,time.asc")

	var sessions []domain.ClassSession
	if err := c.get(ctx, restPrefix+"sessions?"+params.Encode(), &sessions); err != nil {
		return nil, fmt.Errorf("backend.ListSessions: %w", err)
	}
	return sessions, nil
}

// ListReservations returns the user's reservations.
func (c *Client) ListReservations(ctx context.Context, userID string) ([]domain.Reservation, error) {
	params := url.Values{}
	params.Set("select", "id,user_id,session_id,created_at")
	params.Set("user_id", "eq."+userID)

	var reservations []domain.Reservation
	if err := c.get(ctx, restPrefix+"reservations?"+params.Encode(), &reservations); err != nil {
		return nil, fmt.Errorf("backend.ListReservations: %w", err)
	}
	return reservations, nil
}

// InsertReservation books a session for the user. A duplicate booking is
// rejected by the server's unique constraint; callers detect that with
// IsConflict.
func (c *Client) InsertReservation(ctx context.Context, userID, sessionID string) error {
	row := map[string]string{"user_id": userID, "session_id": sessionID}
	if err := c.doRequest(ctx, http.MethodPost, restPrefix+"reservations", row, nil, preferMinimal); err != nil {
		return fmt.Errorf("backend.InsertReservation: %w", err)
	}
	return nil
}

// DeleteReservation removes the user's booking for a session. A delete that
// matches zero rows is indistinguishable from success, which makes
// cancellation idempotent.
func (c *Client) DeleteReservation(ctx context.Context, userID, sessionID string) error {
	params := url.Values{}
	params.Set("user_id", "eq."+userID)
	params.Set("session_id", "eq."+sessionID)

	if err := c.doRequest(ctx, http.MethodDelete, restPrefix+"reservations?"+params.Encode(), nil, nil, nil); err != nil {
		return fmt.Errorf("backend.DeleteReservation: %w", err)
	}
	return nil
}

// HasActiveSubscription reports whether the user holds at least one
// subscription row with status "active".
func (c *Client) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	params := url.Values{}
	params.Set("select", "id")
	params.Set("user_id", "eq."+userID)
	params.Set("status", "eq."+domain.StatusActive)
	params.Set("limit", "1")

	var rows []struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, restPrefix+"subscriptions?"+params.Encode(), &rows); err != nil {
		return false, fmt.Errorf("backend.HasActiveSubscription: %w", err)
	}
	return len(rows) > 0, nil
}

// ListSubscriptions returns the user's subscriptions, newest first.
func (c *Client) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	params := url.Values{}
	params.Set("select", "id,user_id,plan,status,created_at")
	params.Set("user_id", "eq."+userID)
	params.Set("order", "created_at.desc")

	var subs []domain.Subscription
	if err := c.get(ctx, restPrefix+"subscriptions?"+params.Encode(), &subs); err != nil {
		return nil, fmt.Errorf("backend.ListSubscriptions: %w", err)
	}
	return subs, nil
}

// InsertSubscription records a purchased plan for the user.
func (c *Client) InsertSubscription(ctx context.Context, userID, plan, status string) error {
	row := map[string]string{"user_id": userID, "plan": plan, "status": status}
	if err := c.doRequest(ctx, http.MethodPost, restPrefix+"subscriptions", row, nil, preferMinimal); err != nil {
		return fmt.Errorf("backend.InsertSubscription: %w", err)
	}
	return nil
}

// ListHistory returns the user's reservations joined with their session's
// display columns, newest first.
func (c *Client) ListHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	params := url.Values{}
	params.Set("select", "id,created_at,sessions(title,date,time)")
	params.Set("user_id", "eq."+userID)
	params.Set("order", "created_at.desc")

	var entries []domain.HistoryEntry
	if err := c.get(ctx, restPrefix+"reservations?"+params.Encode(), &entries); err != nil {
		return nil, fmt.Errorf("backend.ListHistory: %w", err)
	}
	return entries, nil
}
