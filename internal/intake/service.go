// Package intake validates resume submissions and stores them under a fresh
// client session id.
package intake

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"mime"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"resume-tailor/internal/resumes"
	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/shared/util"
)

const (
	plainText        = "text/plain"
	unknownMediaType = "application/octet-stream"
	idSuffixLen      = 8
	idAlphabet       = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Upload is a file attached to a submission.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Submission is the raw, unvalidated intake request.
type Submission struct {
	ResumeText     string
	Notes          string
	JobDescription string
	File           *Upload
}

// Service prepares resume submissions.
type Service struct {
	Repo  resumes.Repo
	Now   func() time.Time
	NewID func() (string, error)
}

// NewService constructs a Service with the default clock and id generator.
func NewService(repo resumes.Repo) *Service {
	return &Service{Repo: repo}
}

// Prepare validates sub, stores it and returns the new client session id.
func (s *Service) Prepare(ctx context.Context, sub Submission) (string, error) {
	id, err := s.prepare(ctx, sub)
	if err != nil {
		metrics.IntakeTotal.WithLabelValues(string(apperr.KindOf(err))).Inc()
		return "", err
	}
	metrics.IntakeTotal.WithLabelValues("accepted").Inc()
	return id, nil
}

func (s *Service) prepare(ctx context.Context, sub Submission) (string, error) {
	jobDescription := strings.TrimSpace(sub.JobDescription)
	if jobDescription == "" {
		return "", apperr.New(apperr.KindValidation, "Job description is required.")
	}

	var fileText string
	if sub.File != nil {
		text, err := fileToText(*sub.File)
		if err != nil {
			return "", err
		}
		fileText = text
	}

	source := "text"
	resumeText := strings.TrimSpace(sub.ResumeText)
	if resumeText == "" {
		resumeText = strings.TrimSpace(fileText)
		source = "file"
	}
	if resumeText == "" {
		return "", apperr.New(apperr.KindValidation, "Please provide your resume as text or upload a supported text file.")
	}

	id, err := s.newID()
	if err != nil {
		return "", apperr.Wrap(apperr.KindServer, "Unable to prepare resume data. Please try again.", err)
	}

	err = s.Repo.Save(ctx, id, resumes.Submission{
		ClientSessionID: id,
		ResumeText:      resumeText,
		Notes:           sub.Notes,
		JobDescription:  jobDescription,
		CreatedAt:       s.now().UTC(),
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindServer, "Unable to prepare resume data. Please try again.", err)
	}

	fields := map[string]any{
		"client_session_id": id,
		"source":            source,
		"resume_chars":      utf8.RuneCountInString(resumeText),
		"resume_sha":        util.Fingerprint(resumeText),
	}
	if sub.File != nil {
		fields["file_name"] = util.SanitizeFileName(sub.File.FileName)
	}
	telemetry.Info("intake.prepared", fields)
	return id, nil
}

// fileToText accepts only text/plain uploads; no other format is parsed.
func fileToText(f Upload) (string, error) {
	mediaType := unknownMediaType
	if raw := strings.TrimSpace(f.ContentType); raw != "" {
		parsed, _, err := mime.ParseMediaType(raw)
		if err != nil {
			mediaType = raw
		} else {
			mediaType = parsed
		}
	}
	if mediaType != plainText {
		return "", apperr.New(apperr.KindUnsupportedFile, fmt.Sprintf(
			"Unsupported file type %q. Please upload a .txt file or paste your resume text. Supported types: %s",
			mediaType, plainText,
		))
	}

	data := bytes.TrimPrefix(f.Data, utf8BOM)
	if !utf8.Valid(data) {
		return "", apperr.New(apperr.KindUnsupportedFile, "Uploaded file is not valid UTF-8 text. Please paste your resume text instead.")
	}
	return string(data), nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() (string, error) {
	if s.NewID != nil {
		return s.NewID()
	}
	return NewClientSessionID(s.now())
}

// NewClientSessionID returns "<unix-millis>_<8 random base36 chars>".
func NewClientSessionID(now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('_')
	base := big.NewInt(int64(len(idAlphabet)))
	for i := 0; i < idSuffixLen; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("generate client session id: %w", err)
		}
		b.WriteByte(idAlphabet[n.Int64()])
	}
	return b.String(), nil
}
