package repository

import (
	"context"
	"strings"
	"time"

	"job-portal/internal/database"
	"job-portal/internal/database/postgres"
	"job-portal/internal/domain/company"
	"job-portal/internal/domain/job"

	"github.com/google/uuid"
)

const jobWithCompanyColumns = `j.id, j.title, j.description, j.requirements, j.salary, j.experience_level,
	j.location, j.job_type, j.position, j.company_id, j.created_by, j.application_ids,
	j.created_at, j.updated_at,
	c.id, c.name, c.description, c.location, c.website, c.logo_url, c.user_id, c.created_at, c.updated_at`

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, title, description, requirements, salary, experience_level,
			location, job_type, position, company_id, created_by, application_ids, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, '{}', $12, $12)`,
		j.ID, j.Title, j.Description, nonNilStrings(j.Requirements), j.Salary, j.ExperienceLevel,
		j.Location, j.JobType, j.Position, j.CompanyID, j.CreatedBy, now,
	)
	return err
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+jobWithCompanyColumns+`
		 FROM jobs j JOIN companies c ON c.id = j.company_id
		 WHERE j.id = $1`,
		id,
	)
	j, err := scanJobWithCompany(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) Search(ctx context.Context, keyword string) ([]job.Job, error) {
	keyword = strings.TrimSpace(keyword)
	return r.list(ctx,
		`SELECT `+jobWithCompanyColumns+`
		 FROM jobs j JOIN companies c ON c.id = j.company_id
		 WHERE $1 = '' OR j.title ILIKE $2 OR j.description ILIKE $2
		 ORDER BY j.created_at DESC`,
		keyword, "%"+escapeLike(keyword)+"%",
	)
}

func (r *PostgresJobRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]job.Job, error) {
	return r.list(ctx,
		`SELECT `+jobWithCompanyColumns+`
		 FROM jobs j JOIN companies c ON c.id = j.company_id
		 WHERE j.created_by = $1
		 ORDER BY j.created_at DESC`,
		userID,
	)
}

func (r *PostgresJobRepository) list(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJobWithCompany(row database.Row) (job.Job, error) {
	var (
		j job.Job
		c company.Company
	)
	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Requirements, &j.Salary, &j.ExperienceLevel,
		&j.Location, &j.JobType, &j.Position, &j.CompanyID, &j.CreatedBy, &j.ApplicationIDs,
		&j.CreatedAt, &j.UpdatedAt,
		&c.ID, &c.Name, &c.Description, &c.Location, &c.Website, &c.LogoURL, &c.UserID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return job.Job{}, err
	}
	j.Company = &c
	return j, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
