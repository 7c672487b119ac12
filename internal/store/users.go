package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/util"
)

const userColumns = `id, name, email, image, roles, team_id, status, last_login_at, password_hash,
	created_by, updated_by, is_deleted, deleted_at, created_at, updated_at`

// Users is the repository for CMS users.
type Users struct {
	db *sql.DB
}

// CreateUserInput holds the fields accepted when creating a user.
// PasswordHash is nil for accounts provisioned through the external
// identity provider.
type CreateUserInput struct {
	Name         string
	Email        string
	Image        *string
	Roles        []string
	TeamID       *int64
	Status       string
	PasswordHash *string
}

// UpdateUserInput is a partial patch. Nil pointer fields are left
// unchanged; Optional fields distinguish "clear" from "omitted".
type UpdateUserInput struct {
	Name         *string
	Image        Optional[string]
	Roles        []string
	TeamID       Optional[int64]
	Status       *string
	LastLoginAt  Optional[time.Time]
	PasswordHash Optional[string]
}

// ListUsersFilters narrows and paginates a user listing.
type ListUsersFilters struct {
	Page
	Search   string
	TeamID   *int64
	Roles    []string
	Statuses []string
	Scope    Scope
}

// Create persists a new user. The email is lowercased before insert;
// uniqueness among live users is enforced by the store's partial index and
// surfaces as ErrAlreadyExists.
func (r *Users) Create(ctx context.Context, input CreateUserInput, actorID *int64) (model.User, error) {
	email := model.NormalizeEmail(input.Email)
	if email == "" {
		return model.User{}, &model.ValidationError{Field: "email", Reason: "email is required"}
	}

	roles := model.NormalizeRoles(input.Roles)
	if err := model.ValidateRoles(roles); err != nil {
		return model.User{}, err
	}

	status := input.Status
	if status == "" {
		status = model.UserStatusActive
	}
	if err := model.ValidateUserStatus(status); err != nil {
		return model.User{}, err
	}

	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return model.User{}, fmt.Errorf("encoding roles: %w", err)
	}

	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, image, roles, team_id, status, password_hash, created_by, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		strings.TrimSpace(input.Name), email, util.NullStringFromPtr(input.Image), string(rolesJSON),
		util.NullInt64FromPtr(input.TeamID), status, util.NullStringFromPtr(input.PasswordHash),
		util.NullInt64FromPtr(actorID), util.NullInt64FromPtr(actorID), now, now)

	user, err := scanUser(row)
	if err != nil {
		return model.User{}, mapWriteError(err)
	}
	return user, nil
}

// Update applies a partial patch to a live user. Returns ErrNotFound when
// the id does not address a live row; soft-deleted users must be restored
// before they can be updated.
func (r *Users) Update(ctx context.Context, id int64, patch UpdateUserInput, actorID *int64) (model.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*patch.Name))
	}
	if patch.Image.IsSet() {
		sets = append(sets, "image = ?")
		args = append(args, util.NullStringFromPtr(patch.Image.Ptr()))
	}
	if patch.Roles != nil {
		roles := model.NormalizeRoles(patch.Roles)
		if err := model.ValidateRoles(roles); err != nil {
			return model.User{}, err
		}
		rolesJSON, err := json.Marshal(roles)
		if err != nil {
			return model.User{}, fmt.Errorf("encoding roles: %w", err)
		}
		sets = append(sets, "roles = ?")
		args = append(args, string(rolesJSON))
	}
	if patch.TeamID.IsSet() {
		sets = append(sets, "team_id = ?")
		args = append(args, util.NullInt64FromPtr(patch.TeamID.Ptr()))
	}
	if patch.Status != nil {
		if err := model.ValidateUserStatus(*patch.Status); err != nil {
			return model.User{}, err
		}
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.LastLoginAt.IsSet() {
		sets = append(sets, "last_login_at = ?")
		args = append(args, util.NullTimeFromPtr(patch.LastLoginAt.Ptr()))
	}
	if patch.PasswordHash.IsSet() {
		sets = append(sets, "password_hash = ?")
		args = append(args, util.NullStringFromPtr(patch.PasswordHash.Ptr()))
	}
	if actorID != nil {
		sets = append(sets, "updated_by = ?")
		args = append(args, *actorID)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ? AND is_deleted = 0", args...)
	if err != nil {
		return model.User{}, mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.User{}, ErrNotFound
	}

	return r.FindByID(ctx, id, ScopeLive)
}

// TouchLastLogin stamps the last-login timestamp without touching the rest
// of the record.
func (r *Users) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ? AND is_deleted = 0`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touching last login for user %d: %w", id, err)
	}
	return nil
}

// FindByID fetches one user, or ErrNotFound.
func (r *Users) FindByID(ctx context.Context, id int64, scope Scope) (model.User, error) {
	f := NewFilter().Eq("id", id).Scope(scope)
	return r.findOne(ctx, f)
}

// FindByEmail fetches one user by normalized email, or ErrNotFound.
func (r *Users) FindByEmail(ctx context.Context, email string, scope Scope) (model.User, error) {
	f := NewFilter().Eq("email", model.NormalizeEmail(email)).Scope(scope)
	return r.findOne(ctx, f)
}

func (r *Users) findOne(ctx context.Context, f *Filter) (model.User, error) {
	where, args := f.Clause()
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users"+where, args...)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("finding user: %w", err)
	}
	return user, nil
}

// List returns one page of users matching the filters, newest first.
func (r *Users) List(ctx context.Context, filters ListUsersFilters) (Paginated[model.User], error) {
	f := NewFilter().Scope(filters.Scope)
	if filters.TeamID != nil {
		f.Eq("team_id", *filters.TeamID)
	}
	f.InJSON("roles", anyValues(filters.Roles)...)
	f.In("status", anyValues(filters.Statuses)...)
	f.ContainsAny(filters.Search, "name", "email")

	return paginate(ctx, r.db, "SELECT "+userColumns+" FROM users", f, filters.Page, scanUser)
}

// SoftDelete marks a user deleted. A no-op for an absent id.
func (r *Users) SoftDelete(ctx context.Context, id int64, actorID *int64) error {
	return softDeleteRow(ctx, r.db, "users", id, actorID)
}

// Restore reverses a soft delete. A no-op for an absent id.
func (r *Users) Restore(ctx context.Context, id int64, actorID *int64) error {
	return restoreRow(ctx, r.db, "users", id, actorID)
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u                            model.User
		image, passwordHash          sql.NullString
		rolesJSON                    string
		teamID, createdBy, updatedBy sql.NullInt64
		lastLoginAt, deletedAt       sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &image, &rolesJSON, &teamID, &u.Status,
		&lastLoginAt, &passwordHash, &createdBy, &updatedBy, &u.IsDeleted, &deletedAt,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}

	if err := json.Unmarshal([]byte(rolesJSON), &u.Roles); err != nil {
		return model.User{}, fmt.Errorf("decoding roles for user %d: %w", u.ID, err)
	}
	u.Image = util.PtrFromNullString(image)
	u.PasswordHash = util.PtrFromNullString(passwordHash)
	u.TeamID = util.PtrFromNullInt64(teamID)
	u.CreatedBy = util.PtrFromNullInt64(createdBy)
	u.UpdatedBy = util.PtrFromNullInt64(updatedBy)
	u.LastLoginAt = util.PtrFromNullTime(lastLoginAt)
	u.DeletedAt = util.PtrFromNullTime(deletedAt)
	return u, nil
}
