package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

// SeedAccount describes an account created on first boot.
type SeedAccount struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Seeder inserts the default accounts and categories. It is safe to run on
// every boot: accounts are only created when their email is absent and
// categories only when the store has none.
type Seeder struct {
	users      ports.UserRepository
	categories ports.CategoryRepository
	log        zerolog.Logger
	now        func() time.Time
}

func NewSeeder(users ports.UserRepository, categories ports.CategoryRepository, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, categories: categories, log: log, now: time.Now}
}

func (s *Seeder) Run(ctx context.Context, accounts []SeedAccount) error {
	for _, acc := range accounts {
		if err := s.seedAccount(ctx, acc); err != nil {
			return err
		}
	}
	return s.seedCategories(ctx)
}

func (s *Seeder) seedAccount(ctx context.Context, acc SeedAccount) error {
	email := strings.ToLower(strings.TrimSpace(acc.Email))
	if email == "" || acc.Password == "" {
		return nil
	}
	if !domain.ValidRole(acc.Role) {
		return fmt.Errorf("seed account %s: unknown role %q", email, acc.Role)
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed account %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed account %s: hash password: %w", email, err)
	}

	_, err = s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         acc.Role,
		Name:         acc.Name,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil && !errors.Is(err, domain.ErrUserExists) {
		return fmt.Errorf("seed account %s: %w", email, err)
	}

	s.log.Info().Str("email", email).Str("role", acc.Role).Msg("seeded account")
	return nil
}

func (s *Seeder) seedCategories(ctx context.Context) error {
	count, err := s.categories.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range domain.DefaultCategories() {
		c := c
		c.CreatedAt = s.now().UTC()
		if err := s.categories.Create(ctx, &c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
	}

	s.log.Info().Int("count", len(domain.DefaultCategories())).Msg("seeded categories")
	return nil
}
