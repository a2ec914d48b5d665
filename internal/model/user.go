package model

import "time"

// UserRole represents the role of a user in the system
type UserRole string

const (
	UserRoleUser  UserRole = "user"  // Default role, sees the dashboard
	UserRoleAdmin UserRole = "admin" // Curates categories, tasks, notifications
)

// PackageType identifies the purchased relocation package
type PackageType string

const (
	PackageTypeEssential PackageType = "essential"
	PackageTypePremium   PackageType = "premium"
	PackageTypeConcierge PackageType = "concierge"
)

// User represents a user account
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Hash      string   `json:"-"` // Never expose password hash
	FirstName *string  `json:"first_name,omitempty"`
	LastName  *string  `json:"last_name,omitempty"`
	Role      UserRole `json:"role"`

	// Plan entitlement. The package fields on the user are authoritative;
	// the snapshot on UserProgress is vestigial denormalization.
	PackageType      *PackageType `json:"package_type,omitempty"`
	PackageActive    bool         `json:"package_active"`
	PackageExpiresOn *time.Time   `json:"package_expires_on,omitempty"`

	// Read horizon for the notification feed; everything created after this
	// timestamp counts as unread.
	LastNotificationRead *time.Time `json:"last_notification_read,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// HasActivePlan returns true if the user holds a live paid entitlement.
func (u *User) HasActivePlan() bool {
	if !u.PackageActive {
		return false
	}
	if u.PackageExpiresOn != nil && u.PackageExpiresOn.Before(time.Now()) {
		return false
	}
	return true
}

// IsValidPackageType checks a package type value
func IsValidPackageType(t string) bool {
	switch PackageType(t) {
	case PackageTypeEssential, PackageTypePremium, PackageTypeConcierge:
		return true
	default:
		return false
	}
}

// SignupRequest represents a registration request
type SignupRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// SigninRequest represents a login request
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a profile update; nil fields are untouched.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// UpdatePlanRequest is the admin payload for changing a user's entitlement.
type UpdatePlanRequest struct {
	Active      bool       `json:"active"`
	PackageType *string    `json:"package_type,omitempty"`
	ExpiresOn   *time.Time `json:"expires_on,omitempty"`
}

// Validate checks the plan update payload
func (r *UpdatePlanRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Active {
		if r.PackageType == nil || *r.PackageType == "" {
			errs = append(errs, FieldError{Field: "package_type", Message: "package_type is required when activating a plan"})
		} else if !IsValidPackageType(*r.PackageType) {
			errs = append(errs, FieldError{Field: "package_type", Message: "invalid package type"})
		}
	}
	return errs
}
