package user

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"rnimart-be/internal/logger"
	"rnimart-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (User, error)
	Login(ctx context.Context, identifier, password string) (User, error)
	VerifyIdentity(ctx context.Context, username, wa string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
	Update(ctx context.Context, input UpdateInput) (User, error)
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, username string) (User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
		zap.String("username", input.Username),
	)

	input.Username = strings.TrimSpace(input.Username)
	if err := utils.ValidateStruct(input); err != nil {
		log.Warn("invalid register input", zap.Error(err))
		return User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	wa := utils.NormalizePhoneID(input.WA)
	if wa == "" {
		log.Warn("invalid register input", zap.String("wa", input.WA))
		return User{}, fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidPhone)
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return User{}, err
	}

	u := User{
		Name:     strings.TrimSpace(input.Name),
		Username: input.Username,
		Role:     RoleCustomer,
		WA:       wa,
		Email:    input.Email,
		Address:  input.Address,
		Password: hashed,
	}

	err = s.repo.UpdateUsers(ctx, func(users []User) ([]User, error) {
		if slices.ContainsFunc(users, func(x User) bool { return x.Username == u.Username }) {
			return nil, ErrUsernameTaken
		}
		return append(users, u), nil
	})
	if err != nil {
		log.Warn("register rejected", zap.Error(err))
		return User{}, err
	}

	log.Info("register service completed")
	return u.Sanitized(), nil
}

// Login accepts either the username or the WhatsApp number as identifier.
func (s *service) Login(ctx context.Context, identifier, password string) (User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	users, err := s.repo.Users(ctx)
	if err != nil {
		return User{}, err
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		log.Info("login failed, empty identifier")
		return User{}, ErrInvalidCredentials
	}
	phone := utils.NormalizePhoneID(identifier)
	for _, u := range users {
		if u.Username != identifier && u.WA != identifier && (phone == "" || u.WA != phone) {
			continue
		}
		if CheckPassword(u.Password, password) {
			log.Info("login success", zap.String("username", u.Username))
			return u.Sanitized(), nil
		}
	}

	log.Info("login failed")
	return User{}, ErrInvalidCredentials
}

func (s *service) VerifyIdentity(ctx context.Context, username, wa string) error {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return err
	}
	if _, ok := findIdentity(users, username, wa); !ok {
		return ErrIdentityMismatch
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ResetPassword"),
		zap.String("username", input.Username),
	)

	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(input.NewPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := HashPassword(input.NewPassword)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return err
	}

	err = s.repo.UpdateUsers(ctx, func(users []User) ([]User, error) {
		idx, ok := findIdentity(users, input.Username, input.WA)
		if !ok {
			return nil, ErrIdentityMismatch
		}
		users[idx].Password = hashed
		return users, nil
	})
	if err != nil {
		log.Warn("password reset rejected", zap.Error(err))
		return err
	}

	log.Info("password reset completed")
	return nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateUser"),
		zap.String("username", input.Username),
	)

	if err := utils.ValidateStruct(input); err != nil {
		log.Warn("invalid update input", zap.Error(err))
		return User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	wa := utils.NormalizePhoneID(input.WA)
	if wa == "" {
		log.Warn("invalid update input", zap.String("wa", input.WA))
		return User{}, fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidPhone)
	}

	var updated User
	err := s.repo.UpdateUsers(ctx, func(users []User) ([]User, error) {
		idx := slices.IndexFunc(users, func(u User) bool { return u.Username == input.Username })
		if idx < 0 {
			return nil, ErrUserNotFound
		}
		u := users[idx]
		u.Name = strings.TrimSpace(input.Name)
		u.WA = wa
		u.Email = input.Email
		u.Address = input.Address
		u.Role = input.Role
		users[idx] = u
		updated = u
		return users, nil
	})
	if err != nil {
		log.Warn("failed to update user", zap.Error(err))
		return User{}, err
	}

	log.Info("user updated", zap.String("role", string(updated.Role)))
	return updated.Sanitized(), nil
}

func (s *service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, username string) (User, error) {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Username == username {
			return u.Sanitized(), nil
		}
	}
	return User{}, ErrUserNotFound
}

// findIdentity needs both a username and a number with digits; stored
// accounts with an empty number never match.
func findIdentity(users []User, username, wa string) (int, bool) {
	wa = strings.TrimSpace(wa)
	phone := utils.NormalizePhoneID(wa)
	if username == "" || phone == "" {
		return -1, false
	}
	for i, u := range users {
		if u.WA == "" {
			continue
		}
		if u.Username == username && (u.WA == wa || u.WA == phone) {
			return i, true
		}
	}
	return -1, false
}
