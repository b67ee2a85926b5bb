// Package models defines server-side data models persisted in the database.
package models

import "time"

// Link is an upload link: anyone holding Token may upload into FolderPath.
type Link struct {
	ID         string
	Token      string
	FolderPath string
	// PasswordHash is empty when the link needs no password.
	PasswordHash string
	// ExpiresAt is nil for links that never expire.
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// HasPassword reports whether uploads must carry the link password.
func (l *Link) HasPassword() bool {
	return l.PasswordHash != ""
}

// Expired reports whether the link is past its expiry at now.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}
