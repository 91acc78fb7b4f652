package provision

import (
	"context"
	"log/slog"
	"time"
)

// RosterEntry is one account in a batch provisioning run.
type RosterEntry struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

// RosterReport is the per-entry outcome of a batch run.
type RosterReport struct {
	Email              string
	IdentityID         string
	AlreadyProvisioned bool
	Err                error
}

// ProvisionRoster provisions each entry in order, sleeping delay between
// entries to respect the identity provider's rate limits. A failed entry is
// recorded and the run continues; the result is a per-entry report, never an
// all-or-nothing outcome.
func (s *Service) ProvisionRoster(ctx context.Context, entries []RosterEntry, delay time.Duration) []RosterReport {
	reports := make([]RosterReport, 0, len(entries))

	for i, entry := range entries {
		if i > 0 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				slog.Warn("Roster run cancelled", "remaining", len(entries)-i)
				for _, rest := range entries[i:] {
					reports = append(reports, RosterReport{Email: rest.Email, Err: ctx.Err()})
				}
				return reports
			}
		}

		result, err := s.ProvisionAccount(ctx, ProvisionParams{
			Email:    entry.Email,
			Password: entry.Password,
			FullName: entry.FullName,
			Role:     entry.Role,
		})
		if err != nil {
			slog.Error("Roster entry failed", "email", entry.Email, "err", err)
			reports = append(reports, RosterReport{Email: entry.Email, Err: err})
			continue
		}

		slog.Info("Roster entry provisioned", "email", entry.Email, "id", result.IdentityID,
			"reused", result.AlreadyProvisioned)
		reports = append(reports, RosterReport{
			Email:              entry.Email,
			IdentityID:         result.IdentityID,
			AlreadyProvisioned: result.AlreadyProvisioned,
		})
	}

	return reports
}
