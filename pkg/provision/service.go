package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/identity"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/notification"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/profile"
)

// Service owns the idempotent account provisioning workflow: one identity in
// the external provider, one matching profile in the application store, no
// duplicates, no orphans.
//
// Identity and profile live in two independently owned stores with no shared
// transaction boundary, so the workflow is create-then-compensate: the
// profile write follows identity creation immediately, and a failed profile
// write triggers a best-effort delete of the just-created identity. A failed
// compensating delete is reported as KindInconsistentState, never swallowed.
type Service struct {
	provider             identity.Provider
	profiles             profile.ProfileRepository
	strictRoleValidation bool
	defaultRole          string
	notificationManager  *notification.NotificationManager
}

// Option is a function that configures a Service
type Option func(*Service)

// WithIdentityProvider sets the identity provider
func WithIdentityProvider(p identity.Provider) Option {
	return func(s *Service) {
		s.provider = p
	}
}

// WithProfileRepository sets the profile repository
func WithProfileRepository(r profile.ProfileRepository) Option {
	return func(s *Service) {
		s.profiles = r
	}
}

// WithStrictRoleValidation rejects unrecognized role strings with
// KindInvalidInput instead of passing them through. Disabled by default.
func WithStrictRoleValidation(strict bool) Option {
	return func(s *Service) {
		s.strictRoleValidation = strict
	}
}

// WithDefaultRole sets the role assigned when a request omits one
func WithDefaultRole(role string) Option {
	return func(s *Service) {
		s.defaultRole = role
	}
}

// WithNotificationManager sets the manager used to send welcome and
// account-deleted emails. Without one, no emails are sent.
func WithNotificationManager(nm *notification.NotificationManager) Option {
	return func(s *Service) {
		s.notificationManager = nm
	}
}

// NewService creates a new provisioning service
func NewService(opts ...Option) *Service {
	s := &Service{
		defaultRole: RoleUser,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ProvisionParams contains the input of a provisioning operation
type ProvisionParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

// Result is the success outcome of a provisioning operation
type Result struct {
	IdentityID string          `json:"identity_id"`
	Profile    profile.Profile `json:"profile"`
	// AlreadyProvisioned is true when an existing identity was reused via
	// the sign-in fallback instead of a fresh creation
	AlreadyProvisioned bool `json:"already_provisioned"`
}

// ProvisionAccount ensures exactly one identity and one matching profile
// exist for params.Email.
//
// The operation performs at most one identity create, one compensating
// identity delete, and one profile write. It never retries; retrying is the
// caller's responsibility, and only safe on KindTransport failures.
func (s *Service) ProvisionAccount(ctx context.Context, params ProvisionParams) (Result, error) {
	if params.Email == "" || params.Password == "" {
		return Result{}, newError(KindInvalidInput, "email and password are required", nil)
	}
	if params.Role == "" {
		params.Role = s.defaultRole
	}
	if s.strictRoleValidation && !IsRecognizedRole(params.Role) {
		return Result{}, newError(KindInvalidInput, fmt.Sprintf("unrecognized role: %s", params.Role), nil)
	}

	// Step 1: existence check. A found profile plus a successful sign-in
	// means the account is fully provisioned; return without writing. A
	// failed sign-in falls through to step 2 as a repair attempt, and a
	// store failure is swallowed into the same decision.
	profileFound := false
	existing, err := s.profiles.FindProfileByEmail(ctx, params.Email)
	switch {
	case err == nil:
		profileFound = true
		signedIn, signErr := s.provider.SignIn(ctx, params.Email, params.Password)
		if signErr == nil {
			slog.Info("Account already provisioned", "email", params.Email, "id", signedIn.ID)
			return Result{IdentityID: signedIn.ID, Profile: existing, AlreadyProvisioned: true}, nil
		}
		slog.Warn("Profile exists but sign-in failed, attempting repair", "email", params.Email, "err", signErr)
	case errors.Is(err, profile.ErrProfileNotFound):
		// proceed to creation
	default:
		slog.Warn("Existence check failed, proceeding to identity creation", "email", params.Email, "err", err)
	}

	// Step 2: create-or-reuse identity.
	created, err := s.provider.CreateIdentity(ctx, identity.CreateIdentityParams{
		Email:    params.Email,
		Password: params.Password,
		Metadata: identity.Metadata{FullName: params.FullName, Role: params.Role},
	})
	if err != nil {
		return s.reuseIdentity(ctx, params, profileFound, existing, err)
	}

	// Step 3: profile write, compensated on failure.
	written, err := s.writeProfile(ctx, created.ID, params)
	if err != nil {
		return Result{}, s.compensate(ctx, created.ID, params.Email, err)
	}

	s.sendNotice(notification.AccountWelcome, params.Email, map[string]string{
		"FullName": params.FullName,
		"Email":    params.Email,
	})

	slog.Info("Account provisioned", "email", params.Email, "id", created.ID, "role", params.Role)
	return Result{IdentityID: created.ID, Profile: written}, nil
}

// sendNotice emails a notice, best effort. The workflow's outcome never
// depends on email delivery.
func (s *Service) sendNotice(noticeType notification.NoticeType, email string, data map[string]string) {
	if s.notificationManager == nil {
		return
	}
	err := s.notificationManager.Send(noticeType, notification.EmailSystem, notification.NotificationData{
		To:   email,
		Data: data,
	})
	if err != nil {
		slog.Error("Failed to send notice", "type", noticeType, "email", email, "err", err)
	}
}

// reuseIdentity handles a failed identity creation: on a duplicate-email
// failure it falls back to signing in with the supplied credentials, and
// repairs a missing profile when the earlier existence check found none.
func (s *Service) reuseIdentity(ctx context.Context, params ProvisionParams, profileFound bool, existing profile.Profile, createErr error) (Result, error) {
	switch {
	case errors.Is(createErr, identity.ErrIdentityExists):
		signedIn, signErr := s.provider.SignIn(ctx, params.Email, params.Password)
		if signErr == nil {
			if profileFound {
				return Result{IdentityID: signedIn.ID, Profile: existing, AlreadyProvisioned: true}, nil
			}
			// Identity pre-existed with no profile: write the missing
			// profile so the invariant holds. No compensating delete here,
			// since the identity was not created by this operation.
			written, upErr := s.writeProfile(ctx, signedIn.ID, params)
			if upErr != nil {
				return Result{}, newError(KindTransport, "failed to write missing profile for existing identity", upErr)
			}
			slog.Info("Existing identity reused, missing profile repaired", "email", params.Email, "id", signedIn.ID)
			return Result{IdentityID: signedIn.ID, Profile: written, AlreadyProvisioned: true}, nil
		}
		if errors.Is(signErr, identity.ErrInvalidCredentials) {
			return Result{}, newError(KindInvalidCredentials, "identity exists but credentials do not match", signErr)
		}
		return Result{}, newError(KindTransport, "sign-in fallback failed", signErr)
	case errors.Is(createErr, identity.ErrInvalidInput):
		return Result{}, newError(KindInvalidInput, "identity provider rejected input", createErr)
	default:
		return Result{}, newError(KindTransport, "identity creation failed", createErr)
	}
}

func (s *Service) writeProfile(ctx context.Context, identityID string, params ProvisionParams) (profile.Profile, error) {
	id, err := uuid.Parse(identityID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("identity provider returned a non-uuid id %q: %w", identityID, err)
	}
	return s.profiles.UpsertProfile(ctx, profile.UpsertProfileParams{
		ID:       id,
		Email:    params.Email,
		FullName: params.FullName,
		Role:     params.Role,
	})
}

// compensate deletes the identity created earlier in this operation after a
// failed profile write. A failed delete leaves the stores divergent.
func (s *Service) compensate(ctx context.Context, identityID, email string, writeErr error) error {
	slog.Warn("Profile write failed, deleting identity", "email", email, "id", identityID, "err", writeErr)
	if delErr := s.provider.DeleteIdentity(ctx, identityID); delErr != nil {
		slog.Error("Compensating identity delete failed, stores are inconsistent",
			"email", email, "id", identityID, "write_err", writeErr, "delete_err", delErr)
		return newError(KindInconsistentState,
			fmt.Sprintf("profile write failed and identity %s could not be deleted", identityID),
			errors.Join(writeErr, delErr))
	}
	return newError(KindTransport, "profile write failed, identity creation rolled back", writeErr)
}

// UpdateAccount edits a profile's display name and role by identity ID.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, fullName, role string) (profile.Profile, error) {
	if s.strictRoleValidation && role != "" && !IsRecognizedRole(role) {
		return profile.Profile{}, newError(KindInvalidInput, fmt.Sprintf("unrecognized role: %s", role), nil)
	}

	updated, err := s.profiles.UpdateProfile(ctx, profile.UpdateProfileParams{
		ID:       id,
		FullName: fullName,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return profile.Profile{}, err
		}
		return profile.Profile{}, newError(KindTransport, "profile update failed", err)
	}
	return updated, nil
}

// DeleteAccount removes the profile and then the identity for id. Deleting
// the profile first keeps a failed second leg detectable: an identity left
// behind without a profile is reported as KindInconsistentState.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	var email, fullName string
	if existing, err := s.profiles.GetProfile(ctx, id); err == nil {
		email = existing.Email
		fullName = existing.FullName
	}

	profileDeleted := true
	if err := s.profiles.DeleteProfile(ctx, id); err != nil {
		if !errors.Is(err, profile.ErrProfileNotFound) {
			return newError(KindTransport, "profile delete failed", err)
		}
		profileDeleted = false
	}

	if err := s.provider.DeleteIdentity(ctx, id.String()); err != nil {
		if errors.Is(err, identity.ErrIdentityNotFound) {
			if !profileDeleted {
				return err
			}
			slog.Warn("Profile deleted but identity was already gone", "id", id)
			return nil
		}
		if profileDeleted {
			slog.Error("Profile deleted but identity delete failed, stores are inconsistent", "id", id, "err", err)
			return newError(KindInconsistentState,
				fmt.Sprintf("profile deleted but identity %s could not be deleted", id), err)
		}
		return newError(KindTransport, "identity delete failed", err)
	}

	if email != "" {
		s.sendNotice(notification.AccountDeleted, email, map[string]string{
			"FullName": fullName,
			"Email":    email,
		})
	}

	slog.Info("Account deleted", "id", id)
	return nil
}
