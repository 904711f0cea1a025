package profiles

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo implements Repo in memory. It backs dev mode when no database
// is configured and keeps tests hermetic.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	rows   []Submission
}

// NewMemoryRepo creates an empty in-memory repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

// Insert stores a new submission and returns its assigned id.
func (r *MemoryRepo) Insert(ctx context.Context, rec ProfileRecord, artifactURL, originalFilename string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	rec.Normalize()

	r.mu.Lock()
	defer r.mu.Unlock()

	sub := Submission{
		ID:               r.nextID,
		ProfileRecord:    copyRecord(rec),
		ArtifactURL:      artifactURL,
		OriginalFilename: originalFilename,
		ProcessedAt:      time.Now().UTC(),
	}
	r.nextID++
	r.rows = append(r.rows, sub)
	return sub.ID, nil
}

// ListFiltered returns matching submissions newest first.
func (r *MemoryRepo) ListFiltered(ctx context.Context, f Filters, p Pagination) ([]Submission, PageInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, PageInfo{}, err
	}
	p = p.normalized()

	r.mu.RLock()
	matched := make([]Submission, 0, len(r.rows))
	for _, sub := range r.rows {
		if matches(sub, f) {
			matched = append(matched, sub)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].ProcessedAt.Equal(matched[j].ProcessedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].ProcessedAt.After(matched[j].ProcessedAt)
	})

	total := len(matched)
	info := PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: total,
		TotalPages: (total + p.PageSize - 1) / p.PageSize,
	}

	start := (p.Page - 1) * p.PageSize
	if start >= total {
		return []Submission{}, info, nil
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}

	out := make([]Submission, 0, end-start)
	for _, sub := range matched[start:end] {
		sub.ProfileRecord = copyRecord(sub.ProfileRecord)
		out = append(out, sub)
	}
	return out, info, nil
}

// GetByID fetches one submission or ErrNotFound.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sub := range r.rows {
		if sub.ID == id {
			sub.ProfileRecord = copyRecord(sub.ProfileRecord)
			return sub, nil
		}
	}
	return Submission{}, ErrNotFound
}

func matches(sub Submission, f Filters) bool {
	if f.FullName != "" {
		if sub.FullName == nil || !strings.Contains(strings.ToLower(*sub.FullName), strings.ToLower(f.FullName)) {
			return false
		}
	}
	if f.Skill != "" {
		// Match against the serialized blob, mirroring the skills::text
		// comparison done in Postgres.
		blob, _ := json.Marshal(sub.Skills)
		if !strings.Contains(strings.ToLower(string(blob)), strings.ToLower(f.Skill)) {
			return false
		}
	}
	if f.DateFrom != nil && sub.ProcessedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && sub.ProcessedAt.After(*f.DateTo) {
		return false
	}
	return true
}

func copyRecord(rec ProfileRecord) ProfileRecord {
	out := rec
	out.EducationHistory = append([]Education{}, rec.EducationHistory...)
	out.WorkExperience = append([]WorkExperience{}, rec.WorkExperience...)
	out.Skills = append([]string{}, rec.Skills...)
	out.Certifications = append([]Certification{}, rec.Certifications...)
	return out
}

var _ Repo = (*MemoryRepo)(nil)
