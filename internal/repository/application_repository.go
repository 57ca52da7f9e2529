package repository

import (
	"context"
	"time"

	"job-portal/internal/database"
	"job-portal/internal/database/postgres"
	"job-portal/internal/domain/application"
	"job-portal/internal/domain/company"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

const applicationColumns = `a.id, a.job_id, a.applicant_id, a.status, a.created_at, a.updated_at`

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) error {
	now := time.Now().UTC()
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := lockJob(ctx, tx, a.JobID); err != nil {
			return err
		}

		var id uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO applications (id, job_id, applicant_id, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $5)
			 ON CONFLICT ON CONSTRAINT applications_job_applicant_key DO NOTHING
			 RETURNING id`,
			a.ID, a.JobID, a.ApplicantID, string(a.Status), now,
		).Scan(&id)
		if err != nil {
			if postgres.IsNoRows(err) {
				return application.ErrAlreadyApplied
			}
			return err
		}

		return execOne(ctx, tx, job.ErrNotFound,
			`UPDATE jobs SET application_ids = array_append(application_ids, $2), updated_at = now() WHERE id = $1`,
			a.JobID, id,
		)
	})
}

// lockJob takes the row lock that serializes concurrent appends to a job.
func lockJob(ctx context.Context, q database.Querier, jobID uuid.UUID) error {
	var id uuid.UUID
	if err := q.QueryRow(ctx, `SELECT id FROM jobs WHERE id = $1 FOR UPDATE`, jobID).Scan(&id); err != nil {
		if postgres.IsNoRows(err) {
			return job.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE applications a SET status = $2, updated_at = now()
		 WHERE a.id = $1
		 RETURNING `+applicationColumns,
		id, string(status),
	)
	a, err := scanApplication(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]application.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`, `+jobWithCompanyColumns+`
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN companies c ON c.id = j.company_id
		 WHERE a.applicant_id = $1
		 ORDER BY a.created_at DESC`,
		applicantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		var (
			a      application.Application
			status string
			j      job.Job
			c      company.Company
		)
		err := rows.Scan(
			&a.ID, &a.JobID, &a.ApplicantID, &status, &a.CreatedAt, &a.UpdatedAt,
			&j.ID, &j.Title, &j.Description, &j.Requirements, &j.Salary, &j.ExperienceLevel,
			&j.Location, &j.JobType, &j.Position, &j.CompanyID, &j.CreatedBy, &j.ApplicationIDs,
			&j.CreatedAt, &j.UpdatedAt,
			&c.ID, &c.Name, &c.Description, &c.Location, &c.Website, &c.LogoURL, &c.UserID, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		a.Status = application.Status(status)
		j.Company = &c
		a.Job = &j
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`,
			u.id, u.full_name, u.email, u.phone_number, u.role,
			u.bio, u.skills, u.resume_url, u.resume_original_name, u.profile_photo_url,
			u.created_at, u.updated_at
		 FROM applications a
		 JOIN users u ON u.id = a.applicant_id
		 WHERE a.job_id = $1
		 ORDER BY a.created_at DESC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		var (
			a      application.Application
			status string
			u      user.User
			role   string
		)
		err := rows.Scan(
			&a.ID, &a.JobID, &a.ApplicantID, &status, &a.CreatedAt, &a.UpdatedAt,
			&u.ID, &u.FullName, &u.Email, &u.PhoneNumber, &role,
			&u.Profile.Bio, &u.Profile.Skills, &u.Profile.ResumeURL, &u.Profile.ResumeOriginalName, &u.Profile.ProfilePhotoURL,
			&u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		a.Status = application.Status(status)
		u.Role = user.Role(role)
		a.Applicant = &u
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var (
		a      application.Application
		status string
	)
	if err := row.Scan(&a.ID, &a.JobID, &a.ApplicantID, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}
