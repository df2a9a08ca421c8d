package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Food-Locker/consumer/internal/db"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no profile row exists for the subject.
var ErrNotFound = errors.New("profile not found")

// PGService stores guest profiles in Postgres. This is the canonical
// backend profile implementation.
type PGService struct {
	db *db.DB
}

func NewPGService(db *db.DB) *PGService {
	return &PGService{db: db}
}

func (s *PGService) Get(
	ctx context.Context,
	externalID string,
) (*Profile, error) {

	if externalID == "" {
		return nil, errors.New("external id is empty")
	}

	var (
		name  sql.NullString
		email sql.NullString
		phone sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT name, email, phone
		FROM profiles
		WHERE external_id = $1
	`, externalID).Scan(&name, &email, &phone)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &Profile{
		Name:  name.String,
		Email: email.String,
		Phone: phone.String,
	}, nil
}

func (s *PGService) Update(
	ctx context.Context,
	externalID string,
	patch Patch,
) error {

	if externalID == "" {
		return errors.New("external id is empty")
	}

	// COALESCE keeps fields absent from the patch untouched.
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    phone = COALESCE($4, phone),
		    updated_at = NOW()
		WHERE external_id = $1
	`,
		externalID,
		patch.Name,
		patch.Email,
		patch.Phone,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// Provision ensures a profile row exists for a freshly authenticated
// identity, seeding it with the provider's claims. Called from the OAuth
// callback; idempotent per subject.
func (s *PGService) Provision(
	ctx context.Context,
	externalID string,
	displayName string,
	email string,
) (string, error) {

	if externalID == "" {
		return "", errors.New("external id is empty")
	}

	// 1. Existing row wins; provider claims never overwrite edits.
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT id
		FROM profiles
		WHERE external_id = $1
	`, externalID).Scan(&id)

	if err == nil {
		return id.String(), nil
	}

	if err != sql.ErrNoRows {
		return "", err
	}

	// 2. First sign-in: seed from provider claims.
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (external_id, name, email)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		RETURNING id
	`,
		externalID,
		displayName,
		email,
	).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("provision profile: %w", err)
	}

	return id.String(), nil
}
