package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/common"
	"github.com/dmitrijs2005/linkdrop/internal/cryptox"
	"github.com/dmitrijs2005/linkdrop/internal/dbx"
	"github.com/dmitrijs2005/linkdrop/internal/filex"
	"github.com/dmitrijs2005/linkdrop/internal/logging"
	"github.com/dmitrijs2005/linkdrop/internal/server/models"
	"github.com/dmitrijs2005/linkdrop/internal/server/repositories/repomanager"
)

// ExpiryLayout is the accepted expiry format, as sent by a datetime-local
// form field.
const ExpiryLayout = "2006-01-02T15:04"

const tokenBytes = 16

// DuplicateLinkError is returned by Create when the folder already has a
// link. It matches common.ErrAlreadyExists.
type DuplicateLinkError struct {
	Existing *models.Link
}

func (e *DuplicateLinkError) Error() string {
	return fmt.Sprintf("a link for %s already exists", e.Existing.FolderPath)
}

func (e *DuplicateLinkError) Is(target error) bool {
	return target == common.ErrAlreadyExists
}

// CreateLinkRequest is the admin input for a new link. Password and Expiry
// are optional.
type CreateLinkRequest struct {
	FolderPath string
	Password   string
	Expiry     string
}

// LinkService manages upload links. Folders are confined to basePath.
type LinkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	basePath    string
	location    *time.Location
	now         func() time.Time
}

func NewLinkService(db *sql.DB, m repomanager.RepositoryManager, basePath string, log logging.Logger) *LinkService {
	return &LinkService{
		db:          db,
		repomanager: m,
		log:         log,
		basePath:    basePath,
		location:    time.Local,
		now:         time.Now,
	}
}

// Create validates req and stores a new link with a fresh token.
func (s *LinkService) Create(ctx context.Context, req CreateLinkRequest) (*models.Link, error) {
	rel := strings.TrimRight(strings.TrimSpace(req.FolderPath), "/")
	if rel == "" {
		rel = "."
	}
	folder, err := filex.ResolveWithin(s.basePath, rel)
	if err != nil {
		return nil, err
	}
	if !filex.IsDir(folder) {
		return nil, fmt.Errorf("%w: %s is not a directory", common.ErrInvalidPath, folder)
	}

	link := &models.Link{FolderPath: folder}

	if req.Expiry != "" {
		t, err := time.ParseInLocation(ExpiryLayout, req.Expiry, s.location)
		if err != nil {
			return nil, fmt.Errorf("%w: use YYYY-MM-DDTHH:MM", common.ErrInvalidExpiry)
		}
		link.ExpiresAt = &t
	}
	if req.Password != "" {
		link.PasswordHash = cryptox.HashPassword(req.Password)
	}

	link.Token, err = common.MakeURLSafeToken(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Links(tx)

		existing, err := repo.GetByFolder(ctx, folder)
		if err == nil {
			return &DuplicateLinkError{Existing: existing}
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		_, err = repo.Create(ctx, link)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "upload link created", "id", link.ID, "folder", folder, "password", link.HasPassword())
	return link, nil
}

func (s *LinkService) List(ctx context.Context) ([]*models.Link, error) {
	return s.repomanager.Links(s.db).List(ctx)
}

func (s *LinkService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Links(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "upload link deleted", "id", id)
	return nil
}

// Resolve looks up the link for token. An expired link is returned together
// with common.ErrLinkExpired.
func (s *LinkService) Resolve(ctx context.Context, token string) (*models.Link, error) {
	link, err := s.repomanager.Links(s.db).GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link.Expired(s.now()) {
		return link, common.ErrLinkExpired
	}
	return link, nil
}

// CheckPassword returns common.ErrInvalidPassword unless password unlocks
// link. Links without a password accept anything.
func (s *LinkService) CheckPassword(link *models.Link, password string) error {
	if !link.HasPassword() {
		return nil
	}
	if password == "" {
		return common.ErrInvalidPassword
	}
	ok, err := cryptox.VerifyPassword(link.PasswordHash, password)
	if err != nil {
		return fmt.Errorf("link %s: %w", link.ID, err)
	}
	if !ok {
		return common.ErrInvalidPassword
	}
	return nil
}

// IsExpired reports whether link has expired at the service clock.
func (s *LinkService) IsExpired(link *models.Link) bool {
	return link.Expired(s.now())
}

// CleanupCandidates lists links that are expired or whose folder is gone.
func (s *LinkService) CleanupCandidates(ctx context.Context) ([]*models.Link, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.stale(all), nil
}

func (s *LinkService) stale(all []*models.Link) []*models.Link {
	now := s.now()
	var res []*models.Link
	for _, l := range all {
		if l.Expired(now) || !filex.IsDir(l.FolderPath) {
			res = append(res, l)
		}
	}
	return res
}

// Cleanup deletes every cleanup candidate in one transaction and returns
// how many links were removed.
func (s *LinkService) Cleanup(ctx context.Context) (int, error) {
	var n int
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Links(tx)
		all, err := repo.List(ctx)
		if err != nil {
			return err
		}
		for _, l := range s.stale(all) {
			if err := repo.Delete(ctx, l.ID); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info(ctx, "upload links cleaned up", "count", n)
	return n, nil
}

// UploadURL is the public URL of link under base, e.g.
// https://drop.example.com/upload/<token>.
func UploadURL(base string, link *models.Link) string {
	return strings.TrimRight(base, "/") + "/upload/" + link.Token
}
