package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/bikemetro/bikemetro/internal/model"
)

// UserRepo provides data access to the usuarios table.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, email, nombre, apellido, password_hash,
	rut, telefono, numero_tarjeta_bip, rol,
	email_verificado, telefono_verificado, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.RUT, &u.Phone, &u.BipCard, &u.Role,
		&u.EmailVerified, &u.PhoneVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and populates the generated ID.  A
// uniqueness violation on username, email or rut is translated into
// ErrConflict so the handler can answer 409 without parsing driver
// errors itself.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO usuarios
		(username, email, nombre, apellido, password_hash, rut, telefono, numero_tarjeta_bip, rol)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash,
		u.RUT, u.Phone, u.BipCard, u.Role)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // duplicate entry
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByUsername returns a user by unique username or sql.ErrNoRows.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM usuarios WHERE username = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, username))
}

// GetByID returns a user by primary key or sql.ErrNoRows.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM usuarios WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// UpdateProfile updates the mutable profile fields of a user.  Identity
// fields (username, email, rut) and verification flags are not touched
// here.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	const q = `UPDATE usuarios SET nombre = ?, apellido = ?, telefono = ?, numero_tarjeta_bip = ?
			   WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, u.FirstName, u.LastName, u.Phone, u.BipCard, u.ID)
	return err
}
