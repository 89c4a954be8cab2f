// Package sessions persists sign-in session records. Logout clears them;
// they carry no bearing on already-issued tokens.
package sessions

import "context"

type Repository interface {
	Create(ctx context.Context, userID string) (string, error)
	DeleteByUser(ctx context.Context, userID string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
