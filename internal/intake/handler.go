package intake

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

// DefaultMaxUploadBytes bounds the request body when no limit is configured.
const DefaultMaxUploadBytes = 1 << 20

// multipartMemory is the part of a multipart body kept in memory before
// spilling to temp files.
const multipartMemory = 1 << 20

// Handler exposes the intake endpoint.
type Handler struct {
	Svc      *Service
	MaxBytes int64
}

// NewHandler constructs a Handler. maxBytes <= 0 selects DefaultMaxUploadBytes.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxBytes: maxBytes}
}

// RegisterRoutes attaches intake routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload-and-prepare", h.uploadAndPrepare)
}

type prepareRequest struct {
	ResumeText     string `json:"resumeText" form:"resumeText"`
	Notes          string `json:"notes" form:"notes"`
	NotesText      string `json:"notesText" form:"notesText"`
	JobDescription string `json:"jobDescription" form:"jobDescription"`
}

type prepareResponse struct {
	ClientSessionID string `json:"clientSessionId"`
}

func (h *Handler) uploadAndPrepare(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)

	sub, err := h.readSubmission(c)
	if err != nil {
		c.Set(middleware.ErrorKindKey, string(apperr.KindOf(err)))
		respond.Problem(c, err, "Unable to prepare resume data. Please try again.")
		return
	}

	id, err := h.Svc.Prepare(c.Request.Context(), sub)
	if err != nil {
		c.Set(middleware.ErrorKindKey, string(apperr.KindOf(err)))
		respond.Problem(c, err, "Unable to prepare resume data. Please try again.")
		return
	}
	c.Set(middleware.ClientSessionIDKey, id)

	respond.OK(c, prepareResponse{ClientSessionID: id})
}

func (h *Handler) readSubmission(c *gin.Context) (Submission, error) {
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))

	var req prepareRequest
	var file *Upload
	switch mediaType {
	case gin.MIMEJSON:
		if err := c.ShouldBindJSON(&req); err != nil {
			return Submission{}, bodyError(err)
		}
	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			return Submission{}, bodyError(err)
		}
		req = formRequest(c)
		fh, err := c.FormFile("resumeFile")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return Submission{}, bodyError(err)
		default:
			file, err = readUpload(fh)
			if err != nil {
				return Submission{}, bodyError(err)
			}
		}
	default:
		if err := c.Request.ParseForm(); err != nil {
			return Submission{}, bodyError(err)
		}
		req = formRequest(c)
	}

	notes := req.Notes
	if notes == "" {
		notes = req.NotesText
	}
	return Submission{
		ResumeText:     req.ResumeText,
		Notes:          notes,
		JobDescription: req.JobDescription,
		File:           file,
	}, nil
}

func formRequest(c *gin.Context) prepareRequest {
	return prepareRequest{
		ResumeText:     c.PostForm("resumeText"),
		Notes:          c.PostForm("notes"),
		NotesText:      c.PostForm("notesText"),
		JobDescription: c.PostForm("jobDescription"),
	}
}

func readUpload(fh *multipart.FileHeader) (*Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Wrap(apperr.KindValidation, fmt.Sprintf("Upload exceeds the %d byte limit.", tooLarge.Limit), err)
	}
	return apperr.Wrap(apperr.KindValidation, "Request body could not be read.", err)
}
