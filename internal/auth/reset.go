package auth

import (
	"context"
	"strings"
)

// HardReset is the escape hatch for a stuck or invalid cached credential.
// Every step is best-effort and runs even when the previous one failed:
// sign out remotely, sweep every provider-convention key from local storage,
// then blank the in-memory session. There is no verification beyond
// returning; after a reset the user signs in again.
func (m *Manager) HardReset(ctx context.Context) {
	if err := m.client.SignOut(ctx); err != nil {
		m.log.Warn().Err(err).Msg("hard reset: remote sign-out failed, continuing")
	}

	var stale []string
	for _, k := range m.store.Keys() {
		if strings.HasPrefix(k, "sb-") && strings.Contains(k, "auth-token") {
			stale = append(stale, k)
		}
	}
	if len(stale) > 0 {
		if err := m.store.RemoveMany(stale); err != nil {
			m.log.Warn().Err(err).Int("keys", len(stale)).Msg("hard reset: key sweep failed")
		}
	}

	if err := m.SetSession("", ""); err != nil {
		m.log.Warn().Err(err).Msg("hard reset: clearing in-memory session failed")
	}
	m.log.Info().Int("keys_removed", len(stale)).Msg("hard reset completed")
}
