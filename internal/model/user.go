package model

import "time"

// Roles stored in usuarios.rol and carried in the JWT "role" claim.
// ADMIN unlocks the station management endpoints; every registered
// account starts as USUARIO.
const (
	RoleUser  = "USUARIO"
	RoleAdmin = "ADMIN"
)

// User represents an application user record as stored in the
// `usuarios` table.  The username doubles as the public nickname.  The
// RUT is stored without dots, with a dash before the check digit
// (12345678-9) and is unique.  Only the last digits of the Bip! card
// are kept, for display purposes.
//
// Fields:
//  ID            – primary key identifier.
//  Username      – unique nickname used for login display.
//  Email         – unique email address.
//  FirstName     – given name.
//  LastName      – family name (optional).
//  PasswordHash  – bcrypt hashed password.
//  RUT           – Chilean national id, format 12345678-9, unique.
//  Phone         – contact phone number.
//  BipCard       – last digits of the Bip! transit card (optional).
//  Role          – USUARIO or ADMIN.
//  EmailVerified – whether the email was verified.
//  PhoneVerified – whether the phone was verified.
type User struct {
	ID            uint64    // usuarios.id
	Username      string    // usuarios.username
	Email         string    // usuarios.email
	FirstName     string    // usuarios.nombre
	LastName      string    // usuarios.apellido
	PasswordHash  string    // usuarios.password_hash
	RUT           string    // usuarios.rut
	Phone         string    // usuarios.telefono
	BipCard       string    // usuarios.numero_tarjeta_bip
	Role          string    // usuarios.rol
	EmailVerified bool      // usuarios.email_verificado
	PhoneVerified bool      // usuarios.telefono_verificado
	CreatedAt     time.Time // usuarios.created_at
	UpdatedAt     time.Time // usuarios.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user; only the SHA-256 hash of the raw
// token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
