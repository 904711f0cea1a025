package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PGRepo implements Repo using Postgres. Nested collections are stored as
// JSONB blobs, one column per collection, matching the cv_data schema.
type PGRepo struct {
	DB *sql.DB
}

const submissionColumns = `id, full_name, email, phone_number, education_history, work_experience, skills, certifications, file_url, original_filename, processed_at`

// Insert writes a new submission row and returns its assigned id.
func (r *PGRepo) Insert(ctx context.Context, rec ProfileRecord, artifactURL, originalFilename string) (int64, error) {
	rec.Normalize()

	education, err := json.Marshal(rec.EducationHistory)
	if err != nil {
		return 0, fmt.Errorf("%w: marshal education: %v", ErrPersistence, err)
	}
	work, err := json.Marshal(rec.WorkExperience)
	if err != nil {
		return 0, fmt.Errorf("%w: marshal work experience: %v", ErrPersistence, err)
	}
	skills, err := json.Marshal(rec.Skills)
	if err != nil {
		return 0, fmt.Errorf("%w: marshal skills: %v", ErrPersistence, err)
	}
	certifications, err := json.Marshal(rec.Certifications)
	if err != nil {
		return 0, fmt.Errorf("%w: marshal certifications: %v", ErrPersistence, err)
	}

	const query = `
INSERT INTO cv_data (
    full_name,
    email,
    phone_number,
    education_history,
    work_experience,
    skills,
    certifications,
    file_url,
    original_filename
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

	var id int64
	err = r.DB.QueryRowContext(
		ctx,
		query,
		rec.FullName,
		rec.Email,
		rec.PhoneNumber,
		education,
		work,
		skills,
		certifications,
		artifactURL,
		originalFilename,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: insert: %v", ErrPersistence, err)
	}
	return id, nil
}

// ListFiltered returns submissions matching the filters, newest first.
func (r *PGRepo) ListFiltered(ctx context.Context, f Filters, p Pagination) ([]Submission, PageInfo, error) {
	p = p.normalized()

	var conds []string
	var args []any
	if f.FullName != "" {
		conds = append(conds, fmt.Sprintf("full_name ILIKE $%d", len(args)+1))
		args = append(args, "%"+f.FullName+"%")
	}
	if f.Skill != "" {
		conds = append(conds, fmt.Sprintf("skills::text ILIKE $%d", len(args)+1))
		args = append(args, "%"+f.Skill+"%")
	}
	if f.DateFrom != nil {
		conds = append(conds, fmt.Sprintf("processed_at >= $%d", len(args)+1))
		args = append(args, *f.DateFrom)
	}
	if f.DateTo != nil {
		conds = append(conds, fmt.Sprintf("processed_at <= $%d", len(args)+1))
		args = append(args, *f.DateTo)
	}

	whereClause := ""
	if len(conds) > 0 {
		whereClause = "WHERE " + strings.Join(conds, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM cv_data %s", whereClause)
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, PageInfo{}, fmt.Errorf("%w: count: %v", ErrPersistence, err)
	}

	dataQuery := fmt.Sprintf(`
SELECT %s
FROM cv_data
%s
ORDER BY processed_at DESC
LIMIT $%d OFFSET $%d`, submissionColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, p.PageSize, (p.Page-1)*p.PageSize)

	rows, err := r.DB.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, PageInfo{}, fmt.Errorf("%w: query: %v", ErrPersistence, err)
	}
	defer rows.Close()

	out := []Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, PageInfo{}, fmt.Errorf("%w: scan: %v", ErrPersistence, err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, PageInfo{}, fmt.Errorf("%w: rows: %v", ErrPersistence, err)
	}

	info := PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: total,
		TotalPages: (total + p.PageSize - 1) / p.PageSize,
	}
	return out, info, nil
}

// GetByID fetches one submission or ErrNotFound.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Submission, error) {
	query := fmt.Sprintf("SELECT %s FROM cv_data WHERE id = $1", submissionColumns)
	row := r.DB.QueryRowContext(ctx, query, id)
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, fmt.Errorf("%w: get: %v", ErrPersistence, err)
	}
	return sub, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (Submission, error) {
	var sub Submission
	var fullName, email, phone sql.NullString
	var education, work, skills, certifications []byte
	var processedAt time.Time

	err := row.Scan(
		&sub.ID,
		&fullName,
		&email,
		&phone,
		&education,
		&work,
		&skills,
		&certifications,
		&sub.ArtifactURL,
		&sub.OriginalFilename,
		&processedAt,
	)
	if err != nil {
		return Submission{}, err
	}

	if fullName.Valid {
		sub.FullName = &fullName.String
	}
	if email.Valid {
		sub.Email = &email.String
	}
	if phone.Valid {
		sub.PhoneNumber = &phone.String
	}
	sub.ProcessedAt = processedAt

	if len(education) > 0 {
		if err := json.Unmarshal(education, &sub.EducationHistory); err != nil {
			return Submission{}, fmt.Errorf("unmarshal education: %w", err)
		}
	}
	if len(work) > 0 {
		if err := json.Unmarshal(work, &sub.WorkExperience); err != nil {
			return Submission{}, fmt.Errorf("unmarshal work experience: %w", err)
		}
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &sub.Skills); err != nil {
			return Submission{}, fmt.Errorf("unmarshal skills: %w", err)
		}
	}
	if len(certifications) > 0 {
		if err := json.Unmarshal(certifications, &sub.Certifications); err != nil {
			return Submission{}, fmt.Errorf("unmarshal certifications: %w", err)
		}
	}
	sub.Normalize()
	return sub, nil
}

var _ Repo = (*PGRepo)(nil)
