// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package service

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/agency-reporting/progreport/core/logger"
	coreuser "github.com/agency-reporting/progreport/core/user"
	"github.com/agency-reporting/progreport/domain/user"
	usererrors "github.com/agency-reporting/progreport/domain/user/errors"
)

// State describes retrieval and persistence methods for users and their
// credentials.
type State interface {
	// AddUser will add a new user to the database. If the user already
	// exists an error that satisfies usererrors.AlreadyExists will be
	// returned. If the agency does not exist an error that satisfies
	// usererrors.AgencyNotFound will be returned.
	AddUser(ctx context.Context, uuid string, args user.AddUserArgs, passwordHash string, createdAt time.Time) error

	// GetUser will retrieve the user specified by UUID. If the user does
	// not exist an error that satisfies usererrors.NotFound will be
	// returned.
	GetUser(ctx context.Context, uuid string) (user.User, error)

	// GetUserByName will retrieve the user specified by name.
	GetUserByName(ctx context.Context, name string) (user.User, error)

	// GetUserWithPasswordHash returns the named user and its password hash.
	GetUserWithPasswordHash(ctx context.Context, name string) (user.User, string, error)

	// ListUsers returns all users, or those of one agency when agencyUUID
	// is not empty.
	ListUsers(ctx context.Context, agencyUUID string) ([]user.User, error)

	// UpdateUser changes the profile, role and agency of a user.
	UpdateUser(ctx context.Context, uuid string, args user.UpdateUserArgs) error

	// SetPasswordHash replaces the password hash of a user.
	SetPasswordHash(ctx context.Context, uuid string, passwordHash string) error

	// SetActive activates or deactivates a user.
	SetActive(ctx context.Context, uuid string, active bool) error

	// RecordLogin stores the time of a successful login.
	RecordLogin(ctx context.Context, uuid string, at time.Time) error

	// ListUserUUIDsByAgency returns the active users of an agency.
	ListUserUUIDsByAgency(ctx context.Context, agencyUUID string) ([]string, error)

	// ListAdminUUIDs returns the active administrators.
	ListAdminUUIDs(ctx context.Context) ([]string, error)
}

const (
	// minPasswordLength is the minimum number of bytes in a password.
	minPasswordLength = 8

	// usernameValidationRegex is the regex used to validate user names.
	// User names must be 1 or more runes long, can contain any unicode rune
	// from the letter/number class and may contain zero or more of .,_,+
	// or - runes as long as they don't appear at the start or end of the
	// user name. User names can be a maximum of 255 characters long.
	usernameValidationRegex = "^([\\pL\\pN]|[\\pL\\pN][\\pL\\pN._+-]{0,253}[\\pL\\pN])$"
)

var (
	// validUserName is a compiled regex that is used to validate that a
	// user name is valid.
	validUserName = regexp.MustCompile(usernameValidationRegex)

	// hashCost is the bcrypt cost used for new password hashes.
	hashCost = bcrypt.DefaultCost
)

// Service provides the API for working with users.
type Service struct {
	st     State
	clock  clock.Clock
	logger logger.Logger
}

// NewService returns a new Service for interacting with the underlying user
// state.
func NewService(st State, clock clock.Clock, logger logger.Logger) *Service {
	return &Service{
		st:     st,
		clock:  clock,
		logger: logger,
	}
}

// ValidateUsername validates that the user name conforms to the rules
// defined in usernameValidationRegex. If a user name is not valid an error
// is returned that satisfies usererrors.UsernameNotValid.
func ValidateUsername(name string) error {
	if !validUserName.MatchString(name) {
		return errors.Annotatef(usererrors.UsernameNotValid, "%q", name)
	}
	return nil
}

// ValidatePassword checks the password length rules. If the password is
// not valid an error satisfying usererrors.PasswordNotValid is returned.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errors.Annotatef(usererrors.PasswordNotValid, "must be at least %d characters", minPasswordLength)
	}
	return nil
}

// validateRoleAgency checks that administrators have no agency and every
// other role has one.
func validateRoleAgency(role coreuser.Role, agencyUUID string) error {
	if err := role.Validate(); err != nil {
		return errors.Trace(err)
	}
	if role == coreuser.RoleAdmin && agencyUUID != "" {
		return errors.NotValidf("administrator with agency")
	}
	if role != coreuser.RoleAdmin && agencyUUID == "" {
		return errors.NotValidf("%s user without agency", role)
	}
	return nil
}

func validateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Annotatef(usererrors.UUIDNotValid, "%q", id)
	}
	return nil
}

// AddUser will add a new user with a password and return the UUID of the
// user.
//
// The following error types are possible from this function:
// - usererrors.UsernameNotValid: When the username supplied is not valid.
// - usererrors.PasswordNotValid: When the password is too short.
// - errors.NotValid: When the role and agency do not agree.
// - usererrors.AlreadyExists: If a user with the supplied name already exists.
// - usererrors.AgencyNotFound: If the agency does not exist.
func (s *Service) AddUser(ctx context.Context, args user.AddUserArgs) (string, error) {
	if err := ValidateUsername(args.Name); err != nil {
		return "", errors.Annotatef(err, "validating user name %q", args.Name)
	}
	if err := ValidatePassword(args.Password); err != nil {
		return "", errors.Trace(err)
	}
	if err := validateRoleAgency(args.Role, args.AgencyUUID); err != nil {
		return "", errors.Trace(err)
	}

	pwHash, err := hashPassword(args.Password)
	if err != nil {
		return "", errors.Annotatef(err, "hashing password for user %q", args.Name)
	}
	args.Password = ""

	id := uuid.NewString()
	if err := s.st.AddUser(ctx, id, args, pwHash, s.clock.Now()); err != nil {
		return "", errors.Annotatef(err, "adding user %q", args.Name)
	}
	s.logger.Infof("added %s user %q", args.Role, args.Name)
	return id, nil
}

// GetUser will find and return the user with UUID. If there is no user for
// the UUID then an error that satisfies usererrors.NotFound will be
// returned.
func (s *Service) GetUser(ctx context.Context, id string) (user.User, error) {
	if err := validateUUID(id); err != nil {
		return user.User{}, errors.Trace(err)
	}

	usr, err := s.st.GetUser(ctx, id)
	if err != nil {
		return user.User{}, errors.Annotatef(err, "getting user for uuid %q", id)
	}
	return usr, nil
}

// GetUserByName will find and return the user associated with name.
func (s *Service) GetUserByName(ctx context.Context, name string) (user.User, error) {
	if err := ValidateUsername(name); err != nil {
		return user.User{}, errors.Annotatef(err, "validating username %q", name)
	}

	usr, err := s.st.GetUserByName(ctx, name)
	if err != nil {
		return user.User{}, errors.Annotatef(err, "getting user %q", name)
	}
	return usr, nil
}

// ListUsers returns the users of the system. Agency-side principals only
// ever see the users of their own agency.
func (s *Service) ListUsers(ctx context.Context, principal coreuser.Principal, agencyUUID string) ([]user.User, error) {
	if !principal.IsAdmin() {
		agencyUUID = principal.AgencyUUID
	}
	users, err := s.st.ListUsers(ctx, agencyUUID)
	return users, errors.Trace(err)
}

// UpdateUser changes the profile, role and agency of a user.
func (s *Service) UpdateUser(ctx context.Context, id string, args user.UpdateUserArgs) error {
	if err := validateUUID(id); err != nil {
		return errors.Trace(err)
	}
	if err := validateRoleAgency(args.Role, args.AgencyUUID); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(s.st.UpdateUser(ctx, id, args))
}

// SetPassword changes the password of the user.
//
// The following error types are possible from this function:
// - usererrors.UUIDNotValid: When the UUID supplied is not valid.
// - usererrors.PasswordNotValid: When the password is too short.
// - usererrors.NotFound: If no user by the given UUID exists.
func (s *Service) SetPassword(ctx context.Context, id string, password string) error {
	if err := validateUUID(id); err != nil {
		return errors.Trace(err)
	}
	if err := ValidatePassword(password); err != nil {
		return errors.Trace(err)
	}

	pwHash, err := hashPassword(password)
	if err != nil {
		return errors.Annotatef(err, "hashing password for user with uuid %q", id)
	}
	if err := s.st.SetPasswordHash(ctx, id, pwHash); err != nil {
		return errors.Annotatef(err, "setting password for user with uuid %q", id)
	}
	return nil
}

// DeactivateUser prevents the user from logging in.
func (s *Service) DeactivateUser(ctx context.Context, id string) error {
	if err := validateUUID(id); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(s.st.SetActive(ctx, id, false))
}

// ActivateUser allows a deactivated user to log in again.
func (s *Service) ActivateUser(ctx context.Context, id string) error {
	if err := validateUUID(id); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(s.st.SetActive(ctx, id, true))
}

// Authenticate checks the name and password of a user and records the
// login. Unknown users, inactive users and wrong passwords all result in an
// error satisfying usererrors.Unauthorized.
func (s *Service) Authenticate(ctx context.Context, name, password string) (user.User, error) {
	usr, pwHash, err := s.st.GetUserWithPasswordHash(ctx, name)
	if errors.Is(err, usererrors.NotFound) {
		return user.User{}, errors.Annotatef(usererrors.Unauthorized, "%q", name)
	} else if err != nil {
		return user.User{}, errors.Annotatef(err, "authenticating user %q", name)
	}

	if !usr.Active {
		return user.User{}, errors.Annotatef(usererrors.Unauthorized, "%q is deactivated", name)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pwHash), []byte(password)); err != nil {
		return user.User{}, errors.Annotatef(usererrors.Unauthorized, "%q", name)
	}

	now := s.clock.Now()
	if err := s.st.RecordLogin(ctx, usr.UUID, now); err != nil {
		return user.User{}, errors.Annotatef(err, "recording login for %q", name)
	}
	usr.LastLogin = &now
	return usr, nil
}

// ListUserUUIDsByAgency returns the UUIDs of the active users of an agency.
func (s *Service) ListUserUUIDsByAgency(ctx context.Context, agencyUUID string) ([]string, error) {
	uuids, err := s.st.ListUserUUIDsByAgency(ctx, agencyUUID)
	return uuids, errors.Trace(err)
}

// ListAdminUUIDs returns the UUIDs of the active administrators.
func (s *Service) ListAdminUUIDs(ctx context.Context) ([]string, error) {
	uuids, err := s.st.ListAdminUUIDs(ctx)
	return uuids, errors.Trace(err)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", errors.Trace(err)
	}
	return string(hash), nil
}
