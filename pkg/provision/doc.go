// Package provision implements idempotent account provisioning across two
// independently owned stores: an external identity provider and the
// application's profile database.
//
// # Workflow
//
// ProvisionAccount composes three steps:
//
//  1. Existence check: look up the profile by email. If found and the
//     supplied credentials sign in, the account is already provisioned and
//     nothing is written.
//  2. Create-or-reuse identity: attempt creation; on a duplicate-email
//     failure fall back to signing in with the supplied credentials instead
//     of failing the whole operation.
//  3. Profile upsert keyed by the identity ID. On failure, the just-created
//     identity is deleted again (compensating action). If that delete also
//     fails the result is KindInconsistentState, which is always surfaced.
//
// There is no cross-store transaction; the compensating delete is the only
// tool for keeping the "no identity without a profile, no profile without an
// identity" invariant, so its failure is never silently swallowed.
//
// # Basic Usage
//
//	svc := provision.NewService(
//		provision.WithIdentityProvider(provider),
//		provision.WithProfileRepository(repo),
//	)
//
//	result, err := svc.ProvisionAccount(ctx, provision.ProvisionParams{
//		Email:    "coach@example.com",
//		Password: "SecurePass123!",
//		FullName: "Coach",
//		Role:     provision.RoleAdminFitness,
//	})
//
// The operation never retries itself. Callers may retry failures classified
// as KindTransport; all other kinds are terminal.
package provision
