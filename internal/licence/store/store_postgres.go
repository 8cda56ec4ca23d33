package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"affilia/internal/licence/models"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
)

// PostgresStore persists licences in PostgreSQL. Normalized match keys are
// stored alongside the display names so duplicate detection is one indexed
// lookup.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const licenceColumns = `
	id, club_id, last_name, first_name, sex, birth_date,
	email, mobile_phone, landline_phone,
	statut, is_included, payment_status, categorie,
	created_at, updated_at`

func (s *PostgresStore) FindByID(ctx context.Context, id domain.LicenceID) (*models.Licence, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+licenceColumns+` FROM licences WHERE id = $1`, id.Int64())
	licence, err := scanLicence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "licence not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query licence: %w", err)
	}
	return licence, nil
}

func (s *PostgresStore) Insert(ctx context.Context, licence *models.Licence) error {
	now := time.Now()
	if licence.CreatedAt.IsZero() {
		licence.CreatedAt = now
	}
	licence.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO licences
			(club_id, last_name, first_name, last_name_key, first_name_key, sex, birth_date,
			 email, mobile_phone, landline_phone,
			 statut, is_included, payment_status, categorie, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`,
		licence.ClubID.Int64(),
		licence.LastName,
		licence.FirstName,
		models.MatchKey(licence.LastName),
		models.MatchKey(licence.FirstName),
		licence.Sex,
		nullTime(licence.BirthDate),
		licence.Email,
		licence.MobilePhone,
		licence.LandlinePhone,
		string(licence.Status),
		licence.IsIncluded,
		string(licence.PaymentStatus),
		string(licence.Category),
		licence.CreatedAt,
		licence.UpdatedAt,
	).Scan(&licence.ID)
	if err != nil {
		return fmt.Errorf("insert licence: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, licence *models.Licence) error {
	licence.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE licences
		SET last_name = $2, first_name = $3, last_name_key = $4, first_name_key = $5,
		    sex = $6, birth_date = $7, email = $8, mobile_phone = $9, landline_phone = $10,
		    statut = $11, is_included = $12, payment_status = $13, categorie = $14, updated_at = $15
		WHERE id = $1`,
		licence.ID.Int64(),
		licence.LastName,
		licence.FirstName,
		models.MatchKey(licence.LastName),
		models.MatchKey(licence.FirstName),
		licence.Sex,
		nullTime(licence.BirthDate),
		licence.Email,
		licence.MobilePhone,
		licence.LandlinePhone,
		string(licence.Status),
		licence.IsIncluded,
		string(licence.PaymentStatus),
		string(licence.Category),
		licence.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update licence: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return dErrors.New(dErrors.CodeNotFound, "licence not found")
	}
	return nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id domain.LicenceID, status models.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE licences SET statut = $2, updated_at = $3 WHERE id = $1`,
		id.Int64(), string(status), time.Now())
	if err != nil {
		return fmt.Errorf("set licence status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return dErrors.New(dErrors.CodeNotFound, "licence not found")
	}
	return nil
}

func (s *PostgresStore) FindDuplicate(ctx context.Context, clubID domain.ClubID, lastKey, firstKey string, birthDate *time.Time) (*models.Licence, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+licenceColumns+`
		FROM licences
		WHERE club_id = $1
		  AND last_name_key = $2
		  AND first_name_key = $3
		  AND birth_date IS NOT DISTINCT FROM $4
		ORDER BY id
		LIMIT 1`,
		clubID.Int64(), lastKey, firstKey, nullTime(birthDate))
	licence, err := scanLicence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query duplicate licence: %w", err)
	}
	return licence, nil
}

func scanLicence(row *sql.Row) (*models.Licence, error) {
	licence := &models.Licence{}
	var status, paymentStatus, category string
	var birthDate sql.NullTime
	err := row.Scan(
		&licence.ID, &licence.ClubID,
		&licence.LastName, &licence.FirstName, &licence.Sex, &birthDate,
		&licence.Email, &licence.MobilePhone, &licence.LandlinePhone,
		&status, &licence.IsIncluded, &paymentStatus, &category,
		&licence.CreatedAt, &licence.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	licence.Status = models.Status(status)
	licence.PaymentStatus = models.PaymentStatus(paymentStatus)
	licence.Category = models.AgeCategory(category)
	if birthDate.Valid {
		licence.BirthDate = &birthDate.Time
	}
	return licence, nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
