package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/common"
	"github.com/dmitrijs2005/linkdrop/internal/cryptox"
	"github.com/dmitrijs2005/linkdrop/internal/logging"
	"github.com/dmitrijs2005/linkdrop/internal/server/auth"
	"github.com/dmitrijs2005/linkdrop/internal/server/config"
	"github.com/dmitrijs2005/linkdrop/internal/server/models"
	"github.com/dmitrijs2005/linkdrop/internal/server/repositories/repomanager"
)

// UserService seeds administrators and issues their bearer tokens.
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	log           logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	// dummyHash is verified against when the user does not exist, so a
	// missing account costs the same as a wrong password.
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		log:           log,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
		dummyHash:     cryptox.HashPassword(string(common.GenerateRandByteArray(16))),
	}
}

// Seed creates every user in accounts that does not exist yet and returns
// how many were created. Existing users keep their stored password.
func (s *UserService) Seed(ctx context.Context, accounts map[string]string) (int, error) {
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	repo := s.repomanager.Users(s.db)
	created := 0
	for _, name := range names {
		if name == "" {
			continue
		}
		_, err := repo.GetUserByLogin(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return created, fmt.Errorf("lookup user %s: %w", name, err)
		}

		user := &models.User{UserName: name, PasswordHash: cryptox.HashPassword(accounts[name])}
		if _, err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("create user %s: %w", name, err)
		}
		s.log.Info(ctx, "admin user created", "user", name)
		created++
	}
	return created, nil
}

// Login checks the credentials and returns a signed bearer token.
// Unknown users and wrong passwords both give common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	hash := s.dummyHash
	user, err := repo.GetUserByLogin(ctx, userName)
	switch {
	case err == nil:
		hash = user.PasswordHash
	case !errors.Is(err, common.ErrorNotFound):
		return "", common.ErrorInternal
	}

	ok, verr := cryptox.VerifyPassword(hash, password)
	if user != nil && verr != nil {
		s.log.Error(ctx, "stored password hash unreadable", "user", userName, "error", verr)
		return "", common.ErrorInternal
	}
	if user == nil || !ok {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.UserName, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Authenticate returns the user a bearer token was issued to.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserNameFromToken(token, s.jwtSecret)
}
