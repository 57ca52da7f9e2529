package repository

import (
	"context"
	"time"

	"job-portal/internal/database"
	"job-portal/internal/database/postgres"
	"job-portal/internal/domain/company"

	"github.com/google/uuid"
)

const companyColumns = `id, name, description, location, website, logo_url, logo_key, user_id, created_at, updated_at`

type PostgresCompanyRepository struct {
	db database.DB
}

func NewPostgresCompanyRepository(db database.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

func (r *PostgresCompanyRepository) Create(ctx context.Context, c company.Company) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO companies (id, name, description, location, website, logo_url, logo_key, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		c.ID, c.Name, c.Description, c.Location, c.Website, c.LogoURL, c.LogoKey, c.UserID, now,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "companies_owner_name_key") {
			return company.ErrNameTaken
		}
		return err
	}
	return nil
}

func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return company.Company{}, company.ErrNotFound
		}
		return company.Company{}, err
	}
	return c, nil
}

func (r *PostgresCompanyRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]company.Company, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]company.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCompanyRepository) Update(ctx context.Context, c company.Company) error {
	err := execOne(ctx, r.db, company.ErrNotFound,
		`UPDATE companies
		 SET name = $2, description = $3, location = $4, website = $5, logo_url = $6, logo_key = $7, updated_at = now()
		 WHERE id = $1`,
		c.ID, c.Name, c.Description, c.Location, c.Website, c.LogoURL, c.LogoKey,
	)
	if postgres.IsUniqueViolation(err, "companies_owner_name_key") {
		return company.ErrNameTaken
	}
	return err
}

func scanCompany(row database.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Location, &c.Website, &c.LogoURL, &c.LogoKey, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
