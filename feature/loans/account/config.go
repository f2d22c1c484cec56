package account

import (
	"errors"
	"fmt"

	"loan-sync/core/schedule"
	"loan-sync/core/slug"
)

var (
	ErrMissingName     = errors.New("account name is required")
	ErrMissingUsername = errors.New("account username is required")
	ErrMissingPassword = errors.New("account password is required")
)

// Config describes one library account.
type Config struct {
	// ID is the stable account id. It defaults to the slug of Name.
	ID string `mapstructure:"id" default:""`
	// Name is the display name, used in sensor names and identifiers.
	Name string `mapstructure:"name" default:""`
	// Username and Password are the library credentials.
	Username string `mapstructure:"username" default:""`
	Password string `mapstructure:"password" default:""`
	// RefreshTimes lists the daily refresh times as H:MM.
	RefreshTimes []string `mapstructure:"refresh_times" default:"18:00"`
}

// IsSet reports whether any field was configured.
func (c Config) IsSet() bool {
	return c.Name != "" || c.Username != "" || c.Password != ""
}

// AccountID returns ID, or the slug of Name when ID is empty.
func (c Config) AccountID() string {
	if c.ID != "" {
		return c.ID
	}
	return slug.Make(c.Name)
}

// Times resolves the refresh times, defaulting to 18:00.
func (c Config) Times() ([]schedule.Time, error) {
	return schedule.ResolveTimes(c.RefreshTimes)
}

// Validate checks the required fields and the refresh times.
func (c Config) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, ErrMissingName)
	}
	if c.Username == "" {
		errs = append(errs, ErrMissingUsername)
	}
	if c.Password == "" {
		errs = append(errs, ErrMissingPassword)
	}
	if _, err := c.Times(); err != nil {
		errs = append(errs, err)
	}
	if c.Name != "" && c.AccountID() == "" {
		errs = append(errs, fmt.Errorf("account %q needs an id", c.Name))
	}
	return errors.Join(errs...)
}

// ValidateAll validates every account and rejects duplicate ids.
func ValidateAll(accounts []Config) error {
	if len(accounts) == 0 {
		return errors.New("no accounts configured")
	}
	seen := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		if err := acc.Validate(); err != nil {
			return fmt.Errorf("account %q: %w", acc.Name, err)
		}
		id := acc.AccountID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate account id %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
