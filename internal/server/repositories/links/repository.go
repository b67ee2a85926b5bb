// Package links persists upload links.
package links

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/server/models"
)

// Repository stores upload links. Lookups of a missing link return
// common.ErrorNotFound; a duplicate token or folder on Create returns
// common.ErrAlreadyExists.
type Repository interface {
	Create(ctx context.Context, link *models.Link) (*models.Link, error)
	GetByID(ctx context.Context, id string) (*models.Link, error)
	GetByToken(ctx context.Context, token string) (*models.Link, error)
	GetByFolder(ctx context.Context, folder string) (*models.Link, error)
	// List returns every link, newest first.
	List(ctx context.Context) ([]*models.Link, error)
	Delete(ctx context.Context, id string) error
}

const linkColumns = `id, token, folder_path, password_hash, expires_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*models.Link, error) {
	var (
		l       models.Link
		hash    sql.NullString
		expires sql.NullTime
	)
	if err := row.Scan(&l.ID, &l.Token, &l.FolderPath, &hash, &expires, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.PasswordHash = hash.String
	if expires.Valid {
		t := expires.Time
		l.ExpiresAt = &t
	}
	return &l, nil
}

func scanLinks(rows *sql.Rows) ([]*models.Link, error) {
	defer rows.Close()

	var res []*models.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func nullableHash(hash string) sql.NullString {
	return sql.NullString{String: hash, Valid: hash != ""}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
