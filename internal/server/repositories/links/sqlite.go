package links

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/common"
	"github.com/dmitrijs2005/linkdrop/internal/dbx"
	"github.com/dmitrijs2005/linkdrop/internal/server/models"
	"github.com/google/uuid"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Create(ctx context.Context, link *models.Link) (*models.Link, error) {
	id := uuid.NewString()
	created := r.now().UTC()

	query := `INSERT INTO upload_links (id, token, folder_path, password_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		id, link.Token, link.FolderPath, nullableHash(link.PasswordHash), nullableTime(link.ExpiresAt), created)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	link.ID = id
	link.CreatedAt = created
	return link, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Link, error) {
	return r.getOne(ctx, `SELECT `+linkColumns+` FROM upload_links WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByToken(ctx context.Context, token string) (*models.Link, error) {
	return r.getOne(ctx, `SELECT `+linkColumns+` FROM upload_links WHERE token = ?`, token)
}

func (r *SQLiteRepository) GetByFolder(ctx context.Context, folder string) (*models.Link, error) {
	return r.getOne(ctx, `SELECT `+linkColumns+` FROM upload_links WHERE folder_path = ?`, folder)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg any) (*models.Link, error) {
	l, err := scanLink(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Link, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+linkColumns+` FROM upload_links ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	res, err := scanLinks(rows)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM upload_links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}
