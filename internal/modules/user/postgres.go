package user

import (
	"context"
	"database/sql"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateUser(ctx context.Context, u *User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users (role_id, email, password_hash, first_name, middle_name, last_name, second_last_name, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING user_id, created_at`,
		u.RoleID, u.Email, u.PasswordHash,
		u.FirstName, u.MiddleName, u.LastName, u.SecondLastName, u.Active,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT user_id, role_id, email, password_hash, first_name, middle_name, last_name, second_last_name, active, created_at
		FROM users WHERE email = $1`, email))
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT user_id, role_id, email, password_hash, first_name, middle_name, last_name, second_last_name, active, created_at
		FROM users WHERE user_id = $1`, id))
}

func (r *postgresRepository) scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	var middleName, secondLastName sql.NullString
	err := row.Scan(&u.ID, &u.RoleID, &u.Email, &u.PasswordHash,
		&u.FirstName, &middleName, &u.LastName, &secondLastName,
		&u.Active, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.MiddleName = middleName.String
	u.SecondLastName = secondLastName.String
	return u, nil
}
