package models

// ProfileRepository is the external profile document store.
type ProfileRepository interface {
	// GetProfile returns the profile for account or repository.ErrProfileNotFound.
	GetProfile(account string) (*Profile, error)
	// SaveProfile creates or replaces the profile.
	SaveProfile(profile *Profile) error
	// DeleteProfile removes the profile if present.
	DeleteProfile(account string) error
	Close() error
}
