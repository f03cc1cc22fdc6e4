// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"context"
	"time"

	"github.com/canonical/sqlair"
	"github.com/juju/collections/transform"
	"github.com/juju/errors"

	"github.com/agency-reporting/progreport/core/database"
	coreuser "github.com/agency-reporting/progreport/core/user"
	"github.com/agency-reporting/progreport/domain"
	"github.com/agency-reporting/progreport/domain/user"
	usererrors "github.com/agency-reporting/progreport/domain/user/errors"
)

// State represents a type for interacting with the underlying state.
type State struct {
	*domain.StateBase
}

// NewState returns a new State for interacting with the underlying state.
func NewState(factory database.TxnRunnerFactory) *State {
	return &State{
		StateBase: domain.NewStateBase(factory),
	}
}

// AddUser will add a new user to the database. If the user already exists
// an error that satisfies usererrors.AlreadyExists will be returned. If the
// agency does not exist an error satisfying usererrors.AgencyNotFound is
// returned.
func (st *State) AddUser(ctx context.Context, uuid string, args user.AddUserArgs, passwordHash string, createdAt time.Time) error {
	db, err := st.DB()
	if err != nil {
		return errors.Annotate(err, "getting DB access")
	}

	row := dbNewUser{
		UUID:         uuid,
		Name:         args.Name,
		FullName:     args.FullName,
		Email:        args.Email,
		Role:         args.Role.String(),
		AgencyUUID:   nullString(args.AgencyUUID),
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    createdAt.UTC(),
	}
	stmt, err := st.Prepare(`
INSERT INTO user (uuid, name, full_name, email, role, agency_uuid, password_hash, active, created_at)
VALUES ($dbNewUser.*)`, row)
	if err != nil {
		return errors.Annotate(err, "preparing insert user query")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return tx.Query(ctx, stmt, row).Run()
	})
	switch err := domain.CoerceError(err); {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDuplicate):
		return errors.Annotatef(usererrors.AlreadyExists, "%q", args.Name)
	case errors.Is(err, domain.ErrReferenceMissing):
		return errors.Annotatef(usererrors.AgencyNotFound, "%q", args.AgencyUUID)
	default:
		return errors.Annotatef(err, "adding user %q", args.Name)
	}
}

// GetUser will retrieve the user specified by UUID from the database.
// If the user does not exist an error that satisfies usererrors.NotFound
// will be returned.
func (st *State) GetUser(ctx context.Context, uuid string) (user.User, error) {
	db, err := st.DB()
	if err != nil {
		return user.User{}, errors.Annotate(err, "getting DB access")
	}

	id := userUUID{UUID: uuid}
	stmt, err := st.Prepare(`
SELECT &dbUser.*
FROM   user
WHERE  uuid = $userUUID.uuid`, dbUser{}, id)
	if err != nil {
		return user.User{}, errors.Annotate(err, "preparing select user query")
	}

	var result dbUser
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, id).Get(&result)
		if errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(usererrors.NotFound, "%q", uuid)
		}
		return errors.Trace(err)
	})
	if err != nil {
		return user.User{}, errors.Annotatef(err, "getting user with uuid %q", uuid)
	}
	return result.toUser(), nil
}

// GetUserByName will retrieve the user with the given name. If the user
// does not exist an error that satisfies usererrors.NotFound will be
// returned.
func (st *State) GetUserByName(ctx context.Context, name string) (user.User, error) {
	usr, _, err := st.GetUserWithPasswordHash(ctx, name)
	return usr, errors.Trace(err)
}

// GetUserWithPasswordHash returns the named user together with its stored
// password hash.
func (st *State) GetUserWithPasswordHash(ctx context.Context, name string) (user.User, string, error) {
	db, err := st.DB()
	if err != nil {
		return user.User{}, "", errors.Annotate(err, "getting DB access")
	}

	n := userName{Name: name}
	stmt, err := st.Prepare(`
SELECT &dbUser.*, &dbPasswordHash.password_hash
FROM   user
WHERE  name = $userName.name`, dbUser{}, dbPasswordHash{}, n)
	if err != nil {
		return user.User{}, "", errors.Annotate(err, "preparing select user by name query")
	}

	var (
		result dbUser
		hash   dbPasswordHash
	)
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, n).Get(&result, &hash)
		if errors.Is(err, sqlair.ErrNoRows) {
			return errors.Annotatef(usererrors.NotFound, "%q", name)
		}
		return errors.Trace(err)
	})
	if err != nil {
		return user.User{}, "", errors.Annotatef(err, "getting user %q", name)
	}
	return result.toUser(), hash.PasswordHash, nil
}

// ListUsers returns the users ordered by name. When agencyUUID is not
// empty only the users of that agency are returned.
func (st *State) ListUsers(ctx context.Context, agency string) ([]user.User, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Annotate(err, "getting DB access")
	}

	var (
		stmt *sqlair.Statement
		args []any
	)
	if agency == "" {
		stmt, err = st.Prepare(`
SELECT &dbUser.*
FROM   user
ORDER  BY name`, dbUser{})
	} else {
		filter := agencyUUID{UUID: agency}
		args = append(args, filter)
		stmt, err = st.Prepare(`
SELECT &dbUser.*
FROM   user
WHERE  agency_uuid = $agencyUUID.agency_uuid
ORDER  BY name`, dbUser{}, filter)
	}
	if err != nil {
		return nil, errors.Annotate(err, "preparing list users query")
	}

	var rows []dbUser
	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, args...).GetAll(&rows)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Annotate(err, "listing users")
	}
	return transform.Slice(rows, dbUser.toUser), nil
}

// UpdateUser changes the profile, role and agency of a user.
func (st *State) UpdateUser(ctx context.Context, uuid string, args user.UpdateUserArgs) error {
	db, err := st.DB()
	if err != nil {
		return errors.Annotate(err, "getting DB access")
	}

	row := dbUserUpdate{
		UUID:       uuid,
		FullName:   args.FullName,
		Email:      args.Email,
		Role:       args.Role.String(),
		AgencyUUID: nullString(args.AgencyUUID),
	}
	stmt, err := st.Prepare(`
UPDATE user
SET    full_name = $dbUserUpdate.full_name,
       email = $dbUserUpdate.email,
       role = $dbUserUpdate.role,
       agency_uuid = $dbUserUpdate.agency_uuid
WHERE  uuid = $dbUserUpdate.uuid`, row)
	if err != nil {
		return errors.Annotate(err, "preparing update user query")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return errors.Trace(runSingleRowUpdate(ctx, tx, stmt, row, uuid))
	})
	if errors.Is(domain.CoerceError(err), domain.ErrReferenceMissing) {
		return errors.Annotatef(usererrors.AgencyNotFound, "%q", args.AgencyUUID)
	}
	return errors.Annotatef(err, "updating user %q", uuid)
}

// SetPasswordHash replaces the stored password hash of a user.
func (st *State) SetPasswordHash(ctx context.Context, uuid string, passwordHash string) error {
	db, err := st.DB()
	if err != nil {
		return errors.Annotate(err, "getting DB access")
	}

	row := dbPasswordHash{UUID: uuid, PasswordHash: passwordHash}
	stmt, err := st.Prepare(`
UPDATE user
SET    password_hash = $dbPasswordHash.password_hash
WHERE  uuid = $dbPasswordHash.uuid`, row)
	if err != nil {
		return errors.Annotate(err, "preparing set password query")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return errors.Trace(runSingleRowUpdate(ctx, tx, stmt, row, uuid))
	})
	return errors.Annotatef(err, "setting password for user %q", uuid)
}

// SetActive activates or deactivates a user.
func (st *State) SetActive(ctx context.Context, uuid string, active bool) error {
	db, err := st.DB()
	if err != nil {
		return errors.Annotate(err, "getting DB access")
	}

	row := dbActive{UUID: uuid, Active: active}
	stmt, err := st.Prepare(`
UPDATE user
SET    active = $dbActive.active
WHERE  uuid = $dbActive.uuid`, row)
	if err != nil {
		return errors.Annotate(err, "preparing set active query")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return errors.Trace(runSingleRowUpdate(ctx, tx, stmt, row, uuid))
	})
	return errors.Annotatef(err, "setting active=%t for user %q", active, uuid)
}

// RecordLogin stores the time of the user's latest successful login.
func (st *State) RecordLogin(ctx context.Context, uuid string, at time.Time) error {
	db, err := st.DB()
	if err != nil {
		return errors.Annotate(err, "getting DB access")
	}

	row := dbLastLogin{UUID: uuid, LastLogin: at.UTC()}
	stmt, err := st.Prepare(`
UPDATE user
SET    last_login = $dbLastLogin.last_login
WHERE  uuid = $dbLastLogin.uuid`, row)
	if err != nil {
		return errors.Annotate(err, "preparing record login query")
	}

	err = db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		return errors.Trace(runSingleRowUpdate(ctx, tx, stmt, row, uuid))
	})
	return errors.Annotatef(err, "recording login for user %q", uuid)
}

// ListUserUUIDsByAgency returns the UUIDs of the active users of an agency.
func (st *State) ListUserUUIDsByAgency(ctx context.Context, agency string) ([]string, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Annotate(err, "getting DB access")
	}

	filter := agencyUUID{UUID: agency}
	stmt, err := st.Prepare(`
SELECT &userUUID.uuid
FROM   user
WHERE  agency_uuid = $agencyUUID.agency_uuid
AND    active = TRUE`, userUUID{}, filter)
	if err != nil {
		return nil, errors.Annotate(err, "preparing list agency users query")
	}

	uuids, err := st.selectUUIDs(ctx, db, stmt, filter)
	return uuids, errors.Annotatef(err, "listing users of agency %q", agency)
}

// ListAdminUUIDs returns the UUIDs of the active administrators.
func (st *State) ListAdminUUIDs(ctx context.Context) ([]string, error) {
	db, err := st.DB()
	if err != nil {
		return nil, errors.Annotate(err, "getting DB access")
	}

	role := userRole{Role: coreuser.RoleAdmin.String()}
	stmt, err := st.Prepare(`
SELECT &userUUID.uuid
FROM   user
WHERE  role = $userRole.role
AND    active = TRUE`, userUUID{}, role)
	if err != nil {
		return nil, errors.Annotate(err, "preparing list admins query")
	}

	uuids, err := st.selectUUIDs(ctx, db, stmt, role)
	return uuids, errors.Annotate(err, "listing administrators")
}

func (st *State) selectUUIDs(ctx context.Context, db database.TxnRunner, stmt *sqlair.Statement, args ...any) ([]string, error) {
	var rows []userUUID
	err := db.Txn(ctx, func(ctx context.Context, tx *sqlair.TX) error {
		err := tx.Query(ctx, stmt, args...).GetAll(&rows)
		if errors.Is(err, sqlair.ErrNoRows) {
			return nil
		}
		return errors.Trace(err)
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return transform.Slice(rows, func(r userUUID) string { return r.UUID }), nil
}

// runSingleRowUpdate runs an update expected to touch exactly one user,
// returning usererrors.NotFound otherwise.
func runSingleRowUpdate(ctx context.Context, tx *sqlair.TX, stmt *sqlair.Statement, arg any, uuid string) error {
	var outcome sqlair.Outcome
	if err := tx.Query(ctx, stmt, arg).Get(&outcome); err != nil {
		return errors.Trace(err)
	}
	affected, err := outcome.Result().RowsAffected()
	if err != nil {
		return errors.Trace(err)
	}
	if affected != 1 {
		return errors.Annotatef(usererrors.NotFound, "%q", uuid)
	}
	return nil
}
