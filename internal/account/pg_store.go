package account

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/WilliamDu1981/angular2club/internal/db"
)

const accountColumns = `id, account, nick_name, hashed_password, is_active,
	open_id, type, gender, avatar, province, city, created_at, updated_at`

// PGStore is the Postgres-backed account store.
type PGStore struct {
	db *db.DB
}

func NewPGStore(db *db.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Exists(ctx context.Context, handle string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM accounts WHERE LOWER(account) = LOWER($1)
		)
	`, handle).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("account exists check: %w", err)
	}
	return exists, nil
}

func (s *PGStore) Create(ctx context.Context, a *Account) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO accounts
			(account, nick_name, hashed_password, is_active, open_id, type,
			 gender, avatar, province, city)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, $8, $9, $10)
		RETURNING `+accountColumns+`
	`,
		a.Account,
		a.NickName,
		a.HashedPassword,
		a.IsActive,
		a.OpenID,
		a.Type,
		a.Gender,
		a.Avatar,
		a.Province,
		a.City,
	)

	created, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

func (s *PGStore) FindByID(ctx context.Context, id string) (*Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		// malformed ids can never match a row
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = $1
	`, id)
	return s.found(row, "find account by id")
}

func (s *PGStore) FindByHandle(ctx context.Context, handle string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE LOWER(account) = LOWER($1)
	`, handle)
	return s.found(row, "find account by handle")
}

func (s *PGStore) FindByOpenID(ctx context.Context, openID string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE open_id = $1
	`, openID)
	return s.found(row, "find account by open id")
}

func (s *PGStore) Update(ctx context.Context, id string, ch Changes) (*Account, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if ch.NickName != nil {
		appendSet("nick_name", *ch.NickName)
	}
	if ch.IsActive != nil {
		appendSet("is_active", *ch.IsActive)
	}
	if ch.Gender != nil {
		appendSet("gender", *ch.Gender)
	}
	if ch.Avatar != nil {
		appendSet("avatar", *ch.Avatar)
	}
	if ch.Province != nil {
		appendSet("province", *ch.Province)
	}
	if ch.City != nil {
		appendSet("city", *ch.City)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE accounts SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING `+accountColumns+`
	`, args...)

	updated, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return updated, nil
}

func (s *PGStore) found(row *sql.Row, op string) (*Account, error) {
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func scanAccount(row *sql.Row) (*Account, error) {
	var (
		a              Account
		id             uuid.UUID
		hashedPassword sql.NullString
		openID         sql.NullString
	)

	err := row.Scan(
		&id,
		&a.Account,
		&a.NickName,
		&hashedPassword,
		&a.IsActive,
		&openID,
		&a.Type,
		&a.Gender,
		&a.Avatar,
		&a.Province,
		&a.City,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.ID = id.String()
	a.HashedPassword = hashedPassword.String
	a.OpenID = openID.String
	return &a, nil
}
