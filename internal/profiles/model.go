package profiles

import "time"

// Education is one entry of a profile's education history.
type Education struct {
	Degree      *string `json:"degree"`
	Institution *string `json:"institution"`
	Year        *string `json:"year"`
	Field       *string `json:"field"`
}

// WorkExperience is one entry of a profile's work history.
type WorkExperience struct {
	Position    *string `json:"position"`
	Company     *string `json:"company"`
	Duration    *string `json:"duration"`
	Description *string `json:"description"`
}

// Certification is one certification entry.
type Certification struct {
	Name   *string `json:"name"`
	Issuer *string `json:"issuer"`
	Year   *string `json:"year"`
}

// ProfileRecord is the structured output of a single submission. Scalar
// fields are nil when the source document did not contain them; list fields
// are always present, possibly empty.
type ProfileRecord struct {
	FullName         *string          `json:"fullName"`
	Email            *string          `json:"email"`
	PhoneNumber      *string          `json:"phoneNumber"`
	EducationHistory []Education      `json:"educationHistory"`
	WorkExperience   []WorkExperience `json:"workExperience"`
	Skills           []string         `json:"skills"`
	Certifications   []Certification  `json:"certifications"`
}

// Normalize coerces nil collections to empty ones so they serialize as []
// rather than null. It performs no schema validation.
func (r *ProfileRecord) Normalize() {
	if r.EducationHistory == nil {
		r.EducationHistory = []Education{}
	}
	if r.WorkExperience == nil {
		r.WorkExperience = []WorkExperience{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
}

// Submission is a persisted row: one fully processed document.
type Submission struct {
	ID int64 `json:"id"`
	ProfileRecord
	ArtifactURL      string    `json:"fileUrl"`
	OriginalFilename string    `json:"originalFilename"`
	ProcessedAt      time.Time `json:"processedAt"`
}
