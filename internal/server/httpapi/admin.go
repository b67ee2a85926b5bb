package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/common"
	"github.com/dmitrijs2005/linkdrop/internal/server/models"
	"github.com/dmitrijs2005/linkdrop/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type createLinkRequest struct {
	FolderPath string `json:"folder_path"`
	Password   string `json:"password"`
	Expiry     string `json:"expiry"`
}

type linkView struct {
	ID          string     `json:"id"`
	Token       string     `json:"token"`
	URL         string     `json:"url"`
	FolderPath  string     `json:"folder_path"`
	HasPassword bool       `json:"has_password"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Expired     bool       `json:"expired"`
	CreatedAt   time.Time  `json:"created_at"`
}

type linksResponse struct {
	Links []linkView `json:"links"`
}

type cleanupResponse struct {
	Deleted int    `json:"deleted"`
	Message string `json:"message"`
}

func (s *Server) view(r *http.Request, l *models.Link) linkView {
	return linkView{
		ID:          l.ID,
		Token:       l.Token,
		URL:         services.UploadURL(s.baseURL(r), l),
		FolderPath:  l.FolderPath,
		HasPassword: l.HasPassword(),
		ExpiresAt:   l.ExpiresAt,
		Expired:     s.links.IsExpired(l),
		CreatedAt:   l.CreatedAt,
	}
}

func (s *Server) views(r *http.Request, links []*models.Link) linksResponse {
	res := linksResponse{Links: make([]linkView, 0, len(links))}
	for _, l := range links {
		res.Links = append(res.Links, s.view(r, l))
	}
	return res
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.users.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.log.Warn(r.Context(), "admin login failed", "user", req.UserName)
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.links.List(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "list links", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list links")
		return
	}
	writeJSON(w, http.StatusOK, s.views(r, links))
}

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	link, err := s.links.Create(r.Context(), services.CreateLinkRequest{
		FolderPath: req.FolderPath,
		Password:   req.Password,
		Expiry:     req.Expiry,
	})

	var dup *services.DuplicateLinkError
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, s.view(r, link))
	case errors.As(err, &dup):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:   http.StatusText(http.StatusConflict),
			Message: "A link for this folder already exists",
			URL:     services.UploadURL(s.baseURL(r), dup.Existing),
		})
	case errors.Is(err, common.ErrInvalidPath):
		writeError(w, http.StatusBadRequest, "Folder must be an existing directory inside the base path")
	case errors.Is(err, common.ErrInvalidExpiry):
		writeError(w, http.StatusBadRequest, "Invalid expiry format. Use YYYY-MM-DDTHH:MM")
	default:
		s.log.Error(r.Context(), "create link", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create link")
	}
}

func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	err := s.links.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "link not found")
	default:
		s.log.Error(r.Context(), "delete link", "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete link")
	}
}

func (s *Server) handleCleanupPreview(w http.ResponseWriter, r *http.Request) {
	links, err := s.links.CleanupCandidates(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "cleanup preview", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list links")
		return
	}
	writeJSON(w, http.StatusOK, s.views(r, links))
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	n, err := s.links.Cleanup(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "cleanup", "error", err)
		writeError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}
	writeJSON(w, http.StatusOK, cleanupResponse{Deleted: n, Message: fmt.Sprintf("%d links cleaned up.", n)})
}
