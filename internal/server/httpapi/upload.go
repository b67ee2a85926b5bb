package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/linkdrop/internal/common"
	"github.com/dmitrijs2005/linkdrop/internal/filex"
	"github.com/dmitrijs2005/linkdrop/internal/server/models"
	"github.com/dmitrijs2005/linkdrop/internal/server/storage"
	"github.com/go-chi/chi/v5"
)

// Texts shown to uploaders.
const (
	msgInvalidLink     = "Invalid upload link"
	msgExpiredLink     = "This upload link has expired."
	msgWrongPassword   = "Incorrect password for this link."
	msgNoFilePart      = "No file part"
	msgUnknownSize     = "Could not determine file size."
	msgTooLarge        = "Upload exceeds the size limit"
	msgFileExists      = "File %s already exists. Try Again."
	msgNoSpace         = "Not enough disk space for %s"
	msgUploaded        = "File %s Uploaded successfully."
	msgSaveError       = "Error saving %s: %v"
	msgInvalidFilename = "Invalid filename %s"
	msgMalformed       = "Malformed upload: %v"
)

// maxPasswordLen bounds the password part read into memory.
const maxPasswordLen = 4096

type fileResult struct {
	Filename string `json:"filename"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
}

type uploadResponse struct {
	Success  bool         `json:"success"`
	Results  []fileResult `json:"results"`
	Messages []notice     `json:"messages"`
}

func (u *uploadResponse) add(res fileResult) {
	category := categoryError
	if res.Success {
		category = categorySuccess
	}
	u.Results = append(u.Results, res)
	u.Messages = append(u.Messages, notice{Category: category, Text: res.Message})
}

func (u *uploadResponse) failed() bool {
	for _, r := range u.Results {
		if !r.Success {
			return true
		}
	}
	return false
}

// lookupLink resolves the token in the URL and answers 404, 410 or 500
// itself when the link cannot be used.
func (s *Server) lookupLink(w http.ResponseWriter, r *http.Request) (*models.Link, bool) {
	link, err := s.links.Resolve(r.Context(), chi.URLParam(r, "token"))
	switch {
	case err == nil:
		return link, true
	case errors.Is(err, common.ErrorNotFound):
		s.respondUnavailable(w, r, http.StatusNotFound, msgInvalidLink)
	case errors.Is(err, common.ErrLinkExpired):
		s.respondUnavailable(w, r, http.StatusGone, msgExpiredLink)
	default:
		s.log.Error(r.Context(), "resolve upload link", "error", err)
		s.respondUnavailable(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
	return nil, false
}

func (s *Server) respondUnavailable(w http.ResponseWriter, r *http.Request, status int, text string) {
	n := []notice{{Category: categoryError, Text: text}}
	if wantsJSON(r) {
		writeJSON(w, status, uploadResponse{Success: false, Messages: n})
		return
	}
	s.renderPage(w, r, status, pageData{Notices: n})
}

func (s *Server) respondUpload(w http.ResponseWriter, r *http.Request, status int, link *models.Link, resp uploadResponse) {
	if wantsJSON(r) {
		writeJSON(w, status, resp)
		return
	}
	s.renderPage(w, r, status, pageData{
		Available:        true,
		RequiresPassword: link.HasPassword(),
		Notices:          resp.Messages,
	})
}

func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	link, ok := s.lookupLink(w, r)
	if !ok {
		return
	}
	s.renderPage(w, r, http.StatusOK, pageData{Available: true, RequiresPassword: link.HasPassword()})
}

// handleUpload streams the multipart body part by part. The password part
// must come before the file parts of a protected link.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	link, ok := s.lookupLink(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if s.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		s.respondUpload(w, r, http.StatusBadRequest, link, noticeResponse(msgNoFilePart))
		return
	}

	var (
		resp       uploadResponse
		password   string
		authorized bool
		sawFile    bool
	)

	authorize := func() bool {
		if authorized {
			return true
		}
		if err := s.links.CheckPassword(link, password); err != nil {
			if errors.Is(err, common.ErrInvalidPassword) {
				s.log.Warn(ctx, "wrong link password", "link", link.ID)
				s.respondUpload(w, r, http.StatusForbidden, link, noticeResponse(msgWrongPassword))
			} else {
				s.log.Error(ctx, "check link password", "link", link.ID, "error", err)
				s.respondUpload(w, r, http.StatusInternalServerError, link, noticeResponse(http.StatusText(http.StatusInternalServerError)))
			}
			return false
		}
		authorized = true
		return true
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			status, text := http.StatusBadRequest, fmt.Sprintf(msgMalformed, err)
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				status, text = http.StatusRequestEntityTooLarge, msgTooLarge
			}
			resp.Messages = append(resp.Messages, notice{Category: categoryError, Text: text})
			s.respondUpload(w, r, status, link, resp)
			return
		}

		switch part.FormName() {
		case s.passwordField:
			b, err := io.ReadAll(io.LimitReader(part, maxPasswordLen))
			if err != nil {
				_ = part.Close()
				s.respondUpload(w, r, http.StatusBadRequest, link, noticeResponse(fmt.Sprintf(msgMalformed, err)))
				return
			}
			password = string(b)
		case s.fileField:
			sawFile = true
			if !authorize() {
				_ = part.Close()
				return
			}
			if res, ok := s.storeFile(ctx, link, part, r.ContentLength); ok {
				resp.add(res)
			}
		}
		_ = part.Close()
	}

	if !authorize() {
		return
	}
	if !sawFile {
		s.respondUpload(w, r, http.StatusBadRequest, link, noticeResponse(msgNoFilePart))
		return
	}

	resp.Success = !resp.failed()
	s.respondUpload(w, r, http.StatusOK, link, resp)
}

func noticeResponse(text string) uploadResponse {
	return uploadResponse{Messages: []notice{{Category: categoryError, Text: text}}}
}

// storeFile saves one file part. ok is false for parts without a filename,
// which are skipped.
func (s *Server) storeFile(ctx context.Context, link *models.Link, part *multipart.Part, requestSize int64) (fileResult, bool) {
	original := part.FileName()
	if original == "" {
		return fileResult{}, false
	}

	fail := func(format string, args ...any) (fileResult, bool) {
		s.metrics.fileFailed()
		msg := fmt.Sprintf(format, args...)
		s.log.Warn(ctx, "upload rejected", "link", link.ID, "file", original, "reason", msg)
		return fileResult{Filename: original, Success: false, Message: msg}, true
	}

	name := filex.SecureFilename(original)
	if name == "" {
		return fail(msgInvalidFilename, original)
	}

	exists, err := s.store.Exists(ctx, link.FolderPath, name)
	if err != nil {
		return fail(msgSaveError, name, err)
	}
	if exists {
		return fail(msgFileExists, name)
	}

	if requestSize < 0 {
		return fail(msgUnknownSize)
	}
	if err := s.store.CheckSpace(ctx, link.FolderPath, requestSize); err != nil {
		if errors.Is(err, storage.ErrInsufficientSpace) {
			return fail(msgNoSpace, name)
		}
		return fail(msgSaveError, name, err)
	}

	n, err := s.store.Save(ctx, link.FolderPath, name, part)
	if err != nil {
		if errors.Is(err, storage.ErrExists) {
			return fail(msgFileExists, name)
		}
		return fail(msgSaveError, name, err)
	}

	s.metrics.fileStored(n)
	s.log.Info(ctx, "file stored", "link", link.ID, "file", name, "bytes", n)
	return fileResult{Filename: original, Success: true, Message: fmt.Sprintf(msgUploaded, name)}, true
}
