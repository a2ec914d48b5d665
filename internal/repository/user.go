package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/settleline/api/internal/database"
	"github.com/settleline/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user account. Email uniqueness is enforced here by a
// lookup before insert; the duplicate check is advisory and the schema-level
// unique index remains the backstop.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			email: $email,
			hash: $hash,
			first_name: $first_name,
			last_name: $last_name,
			role: $role,
			package_active: false,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"email":      strings.ToLower(user.Email),
		"hash":       user.Hash,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       string(user.Role),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return err
	}

	records, ok := extractQueryResults(result)
	if !ok || len(records) == 0 {
		return database.ErrQuery
	}
	created, ok := records[0].(map[string]interface{})
	if !ok {
		return database.ErrQuery
	}

	user.ID = extractRecordID(created["id"])
	user.CreatedOn = getTime(created, "created_on")
	user.UpdatedOn = getTime(created, "updated_on")
	return nil
}

// GetByEmail retrieves a user by email; returns nil when missing
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": strings.ToLower(email)}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserResult(result)
}

// GetByID retrieves a user by ID; returns nil when missing
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserResult(result)
}

// UpdateProfile applies profile field updates to a user
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	query := `UPDATE type::record($id) SET `
	vars := map[string]interface{}{"id": id}

	first := true
	for field, value := range updates {
		if !first {
			query += ", "
		}
		query += field + " = $" + field
		vars[field] = value
		first = false
	}
	query += `, updated_on = time::now()`

	return r.db.Execute(ctx, query, vars)
}

// UpdatePlan sets a user's package entitlement fields
func (r *UserRepository) UpdatePlan(ctx context.Context, id string, active bool, packageType *string, expiresOn *time.Time) error {
	query := `
		UPDATE type::record($id) SET
			package_active = $active,
			package_type = $package_type,
			package_expires_on = $expires_on,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":           id,
		"active":       active,
		"package_type": packageType,
		"expires_on":   expiresOn,
	}

	return r.db.Execute(ctx, query, vars)
}

// UpdateLastNotificationRead advances a user's notification read horizon
func (r *UserRepository) UpdateLastNotificationRead(ctx context.Context, id string, readAt time.Time) error {
	query := `UPDATE type::record($id) SET last_notification_read = $read_at, updated_on = time::now()`
	vars := map[string]interface{}{"id": id, "read_at": readAt}

	return r.db.Execute(ctx, query, vars)
}

// ListNonAdminIDs returns the ids of every non-admin user, the recipient set
// for notification fan-out
func (r *UserRepository) ListNonAdminIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM user WHERE role != $role`
	vars := map[string]interface{}{"role": string(model.UserRoleAdmin)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records, ok := extractQueryResults(result)
	if !ok {
		return []string{}, nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if m, ok := rec.(map[string]interface{}); ok {
			if id := extractRecordID(m["id"]); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// parseUserResult parses a single user record
func parseUserResult(result interface{}) (*model.User, error) {
	m, ok := result.(map[string]interface{})
	if !ok {
		return nil, database.ErrQuery
	}
	return userFromMap(m), nil
}

func userFromMap(m map[string]interface{}) *model.User {
	user := &model.User{
		ID:                   extractRecordID(m["id"]),
		Email:                getString(m, "email"),
		Hash:                 getString(m, "hash"),
		FirstName:            getStringPtr(m, "first_name"),
		LastName:             getStringPtr(m, "last_name"),
		Role:                 model.UserRole(getString(m, "role")),
		PackageActive:        getBool(m, "package_active"),
		PackageExpiresOn:     getTimePtr(m, "package_expires_on"),
		LastNotificationRead: getTimePtr(m, "last_notification_read"),
		CreatedOn:            getTime(m, "created_on"),
		UpdatedOn:            getTime(m, "updated_on"),
	}
	if pt := getStringPtr(m, "package_type"); pt != nil {
		packageType := model.PackageType(*pt)
		user.PackageType = &packageType
	}
	return user
}
