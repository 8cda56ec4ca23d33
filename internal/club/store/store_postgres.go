package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"affilia/internal/club/models"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
)

// PostgresStore persists clubs in PostgreSQL. Document slots live in the
// club_documents table keyed by the DocumentType enum value.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type clubQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ClubID) (*models.Club, error) {
	return findClub(ctx, s.db, id, false)
}

func (s *PostgresStore) Create(ctx context.Context, club *models.Club) error {
	now := time.Now()
	if club.CreatedAt.IsZero() {
		club.CreatedAt = now
	}
	club.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO clubs (name, statut, affiliated_at, quota_total, quota_used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		club.Name,
		string(club.Status),
		nullTime(club.AffiliatedAt),
		club.QuotaTotal,
		club.QuotaUsed,
		club.CreatedAt,
		club.UpdatedAt,
	).Scan(&club.ID)
	if err != nil {
		return fmt.Errorf("insert club: %w", err)
	}
	if err := replaceDocuments(ctx, s.db, club); err != nil {
		return err
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, club *models.Club) error {
	club.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE clubs
		SET name = $2, statut = $3, affiliated_at = $4, quota_total = $5, quota_used = $6, updated_at = $7
		WHERE id = $1`,
		club.ID.Int64(),
		club.Name,
		string(club.Status),
		nullTime(club.AffiliatedAt),
		club.QuotaTotal,
		club.QuotaUsed,
		club.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update club: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return dErrors.New(dErrors.CodeNotFound, "club not found")
	}
	return replaceDocuments(ctx, s.db, club)
}

// Execute loads the club under SELECT FOR UPDATE, runs validate then
// mutate, and commits the updated row. Concurrent Execute calls for the
// same club serialize on the row lock.
func (s *PostgresStore) Execute(ctx context.Context, id domain.ClubID, validate func(*models.Club) error, mutate func(*models.Club)) (*models.Club, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin club tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	club, err := findClub(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := validate(club); err != nil {
		return nil, err
	}
	mutate(club)

	club.UpdatedAt = time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE clubs
		SET name = $2, statut = $3, affiliated_at = $4, quota_total = $5, quota_used = $6, updated_at = $7
		WHERE id = $1`,
		club.ID.Int64(),
		club.Name,
		string(club.Status),
		nullTime(club.AffiliatedAt),
		club.QuotaTotal,
		club.QuotaUsed,
		club.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update club in tx: %w", err)
	}
	if err := replaceDocuments(ctx, tx, club); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit club tx: %w", err)
	}
	return club, nil
}

func (s *PostgresStore) RemainingQuota(ctx context.Context, id domain.ClubID) (int, error) {
	var remaining int
	err := s.db.QueryRowContext(ctx, `
		SELECT GREATEST(quota_total - quota_used, 0) FROM clubs WHERE id = $1`,
		id.Int64(),
	).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, dErrors.New(dErrors.CodeNotFound, "club not found")
	}
	if err != nil {
		return 0, fmt.Errorf("query club quota: %w", err)
	}
	return remaining, nil
}

func findClub(ctx context.Context, q clubQuerier, id domain.ClubID, forUpdate bool) (*models.Club, error) {
	query := `
		SELECT id, name, statut, affiliated_at, quota_total, quota_used, created_at, updated_at
		FROM clubs WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	club := &models.Club{Documents: make(map[models.DocumentType]string)}
	var status string
	var affiliatedAt sql.NullTime
	err := q.QueryRowContext(ctx, query, id.Int64()).Scan(
		&club.ID, &club.Name, &status, &affiliatedAt,
		&club.QuotaTotal, &club.QuotaUsed, &club.CreatedAt, &club.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "club not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query club: %w", err)
	}
	club.Status = models.ClubStatus(status)
	if affiliatedAt.Valid {
		club.AffiliatedAt = &affiliatedAt.Time
	}

	rows, err := q.QueryContext(ctx, `
		SELECT doc_type, reference FROM club_documents WHERE club_id = $1`, id.Int64())
	if err != nil {
		return nil, fmt.Errorf("query club documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var docType, reference string
		if err := rows.Scan(&docType, &reference); err != nil {
			return nil, fmt.Errorf("scan club document: %w", err)
		}
		club.Documents[models.DocumentType(docType)] = reference
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate club documents: %w", err)
	}
	return club, nil
}

func replaceDocuments(ctx context.Context, q clubQuerier, club *models.Club) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM club_documents WHERE club_id = $1`, club.ID.Int64()); err != nil {
		return fmt.Errorf("clear club documents: %w", err)
	}
	for docType, reference := range club.Documents {
		if reference == "" {
			continue
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO club_documents (club_id, doc_type, reference) VALUES ($1, $2, $3)`,
			club.ID.Int64(), string(docType), reference)
		if err != nil {
			return fmt.Errorf("insert club document: %w", err)
		}
	}
	return nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
