package config

import "time"

// ProvisionConfig holds provisioning workflow configuration
type ProvisionConfig struct {
	// StrictRoleValidation rejects unrecognized role strings instead of
	// storing them as-is.
	StrictRoleValidation bool `env:"PROVISION_STRICT_ROLES" env-default:"false"`

	// DefaultRole is assigned when a provisioning request omits the role.
	DefaultRole string `env:"PROVISION_DEFAULT_ROLE" env-default:"user"`

	// BatchDelay is the pause between entries during roster provisioning.
	BatchDelay time.Duration `env:"PROVISION_BATCH_DELAY" env-default:"200ms"`

	// Persistence selects the profile and feedback store: postgres or memory.
	Persistence string `env:"PERSISTENCE_TYPE" env-default:"postgres"`
}
