package profiles

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cv-backend/internal/artifacts"
	"cv-backend/internal/extract"
	"cv-backend/internal/llm"
	"cv-backend/internal/shared/server/respond"
)

// maxUploadBytes caps the accepted document size at 10 MiB.
const maxUploadBytes = 10 << 20

// Handler exposes the ingestion and retrieval endpoints.
type Handler struct {
	Service *Service
}

// NewHandler creates a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// Register mounts the routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/upload-cv", h.Upload)
	rg.GET("/resumes", h.List)
	rg.GET("/resumes/:id", h.Get)
}

// Upload accepts one document in the multipart field "cv", runs it through
// the pipeline and returns the structured record.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("cv")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, "file_too_large", "uploaded file exceeds the 10 MiB limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "missing_file", "no file uploaded in field 'cv'", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "file_too_large", "uploaded file exceeds the 10 MiB limit", nil)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !extract.Supported(contentType) {
		respond.Error(c, http.StatusBadRequest, "unsupported_format", "only PDF and DOCX files are accepted", gin.H{"contentType": contentType})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "unreadable_file", "could not read uploaded file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "unreadable_file", "could not read uploaded file", nil)
		return
	}

	res, err := h.Service.Process(c.Request.Context(), Upload{
		Data:        data,
		Filename:    fileHeader.Filename,
		ContentType: contentType,
	})
	if err != nil {
		h.writeProcessError(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"success": true,
		"message": "CV processed successfully",
		"data":    res,
	})
}

func (h *Handler) writeProcessError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		respond.Error(c, http.StatusBadRequest, "unsupported_format", "only PDF and DOCX files are accepted", nil)
	case errors.Is(err, extract.ErrExtractionFailed):
		respond.Error(c, http.StatusBadRequest, "extraction_failed", "could not extract text from the document", nil)
	case errors.Is(err, ErrEmptyInput):
		respond.Error(c, http.StatusBadRequest, "empty_document", "document contains no extractable text", nil)
	case errors.Is(err, llm.ErrServiceUnavailable):
		respond.Error(c, http.StatusBadGateway, "structuring_unavailable", "structuring service is unavailable", nil)
	case errors.Is(err, ErrStructuringParse):
		respond.Error(c, http.StatusBadGateway, "structuring_failed", "structuring service returned an unusable response", nil)
	case errors.Is(err, artifacts.ErrPersistFailed):
		respond.Error(c, http.StatusInternalServerError, "artifact_failed", "could not store the uploaded file", nil)
	case errors.Is(err, ErrPersistence):
		respond.Error(c, http.StatusInternalServerError, "persistence_failed", "could not save the extracted record", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error while processing the document", nil)
	}
}

// List returns persisted submissions, filtered and paginated.
func (h *Handler) List(c *gin.Context) {
	var f Filters
	f.FullName = c.Query("fullName")
	f.Skill = c.Query("skill")

	if raw := c.Query("dateFrom"); raw != "" {
		ts, err := parseDate(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "invalid_date", "dateFrom must be an RFC 3339 timestamp or YYYY-MM-DD", gin.H{"value": raw})
			return
		}
		f.DateFrom = &ts
	}
	if raw := c.Query("dateTo"); raw != "" {
		ts, err := parseDate(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "invalid_date", "dateTo must be an RFC 3339 timestamp or YYYY-MM-DD", gin.H{"value": raw})
			return
		}
		f.DateTo = &ts
	}

	var p Pagination
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.Error(c, http.StatusBadRequest, "invalid_page", "page must be a positive integer", gin.H{"value": raw})
			return
		}
		p.Page = n
	}
	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.Error(c, http.StatusBadRequest, "invalid_page_size", "pageSize must be a positive integer", gin.H{"value": raw})
			return
		}
		p.PageSize = n
	}

	subs, info, err := h.Service.List(c.Request.Context(), f, p)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "persistence_failed", "could not list submissions", nil)
		return
	}

	respond.OK(c, gin.H{
		"success":    true,
		"data":       subs,
		"pagination": info,
	})
}

// Get returns one submission by id.
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respond.Error(c, http.StatusBadRequest, "invalid_id", "id must be a positive integer", gin.H{"value": c.Param("id")})
		return
	}

	sub, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", gin.H{"id": id})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "persistence_failed", "could not load submission", nil)
		return
	}

	respond.OK(c, gin.H{"success": true, "data": sub})
}

func parseDate(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}
