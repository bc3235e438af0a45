package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/company-directory/internal/auth"
	sessionDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/session"
	"github.com/jmoiron/sqlx"
)

// SessionRepository keeps sessions with plain SQL. Queries use "?" and are
// rebound for the driver in use.
type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) auth.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *sessionDatamodel.Session) error {
	query := r.db.Rebind(`INSERT INTO user_session (userid, jwttoken, createdat, expiresat)
VALUES (?, ?, ?, ?) RETURNING id`)
	return r.db.QueryRowxContext(ctx, query, s.UserID, s.JWTToken, s.CreatedAt, s.ExpiresAt).Scan(&s.ID)
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*sessionDatamodel.Session, error) {
	var s sessionDatamodel.Session
	query := r.db.Rebind(`SELECT id, userid, jwttoken, createdat, expiresat FROM user_session WHERE jwttoken = ?`)
	if err := r.db.GetContext(ctx, &s, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM user_session WHERE jwttoken = ?`), token)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM user_session WHERE expiresat < ?`), now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
