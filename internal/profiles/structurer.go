package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cv-backend/internal/llm"
)

// extractionPrompt is the contract with the completion service. Changing it
// changes what every downstream consumer receives; treat it as frozen.
const extractionPrompt = `You are an expert CV/Resume parser. Extract structured data from the provided CV text and return ONLY a valid JSON object with the following exact structure:

{
  "fullName": "string - The person's full name",
  "email": "string - Email address or null if not found",
  "phoneNumber": "string - Phone number or null if not found",
  "educationHistory": [
    {
      "degree": "string - Degree/qualification name",
      "institution": "string - School/university name",
      "year": "string - Graduation year or period",
      "field": "string - Field of study"
    }
  ],
  "workExperience": [
    {
      "position": "string - Job title",
      "company": "string - Company name",
      "duration": "string - Employment period",
      "description": "string - Brief job description"
    }
  ],
  "skills": ["string - List of technical and soft skills"],
  "certifications": [
    {
      "name": "string - Certification name",
      "issuer": "string - Issuing organization",
      "year": "string - Year obtained"
    }
  ]
}

Rules:
- Return ONLY the JSON object, no additional text
- Use null for missing information
- Extract all relevant information from the CV text
- Be precise and consistent with data formatting
- If a section is empty, use an empty array []
- Ensure all strings are properly escaped for valid JSON`

const userPromptPrefix = "Please extract structured data from this CV:\n\n"

// Completion parameters lean deterministic and cap output to bound cost.
var structuringParams = llm.Params{
	Temperature: 0.1,
	TopP:        0.9,
	MaxTokens:   2000,
}

// Structurer turns extracted document text into a ProfileRecord via the
// completion service.
type Structurer struct {
	Client llm.CompletionClient
}

// Structure sends text to the completion service and recovers a structured
// record from the response. Empty input fails before any service call.
func (s *Structurer) Structure(ctx context.Context, text string) (ProfileRecord, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ProfileRecord{}, ErrEmptyInput
	}

	messages := []llm.Message{
		{Role: "system", Content: extractionPrompt},
		{Role: "user", Content: userPromptPrefix + trimmed},
	}

	content, err := s.Client.Complete(ctx, messages, structuringParams)
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("structure profile: %w", err)
	}

	rec, err := decodeRecord(content)
	if err != nil {
		return ProfileRecord{}, err
	}
	rec.Normalize()
	return rec, nil
}

// decodeRecord applies the response recovery protocol: parse the whole
// content as JSON; failing that, parse the greedy brace-delimited substring
// (first '{' through last '}'); failing both, surface the raw response.
func decodeRecord(content string) (ProfileRecord, error) {
	var rec ProfileRecord
	if err := json.Unmarshal([]byte(content), &rec); err == nil {
		return rec, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		rec = ProfileRecord{}
		if err := json.Unmarshal([]byte(content[start:end+1]), &rec); err == nil {
			return rec, nil
		}
	}

	return ProfileRecord{}, fmt.Errorf("%w: raw response: %s", ErrStructuringParse, truncate(content, 500))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
