package pgrepo

import (
	"context"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, created_at, updated_at, username, encrypted_password, is_admin`

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (u *UserRepository) CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error) {
	row := u.db.QueryRow(ctx,
		`INSERT INTO users (username, encrypted_password, is_admin) VALUES ($1, $2, $3) RETURNING `+userColumns,
		user.Username, user.Password, user.IsAdmin,
	)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user `%s`", user.Username)
	}
	return dbUser, nil
}

func (u *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username `%s`", username)
	}
	return dbUser, nil
}

func (u *UserRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return dbUser, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Username,
		&user.EncryptedPassword,
		&user.IsAdmin,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &user, nil
}
