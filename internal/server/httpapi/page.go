package httpapi

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
)

//go:embed templates/upload.html
var templates embed.FS

var uploadPage = template.Must(template.ParseFS(templates, "templates/upload.html"))

// Notice category names shared with the upload client.
const (
	categorySuccess = "success"
	categoryError   = "error"
)

type notice struct {
	Category string
	Text     string
}

// MarshalJSON emits the [category, text] tuple form.
func (n notice) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{n.Category, n.Text})
}

type pageData struct {
	Action           string
	Available        bool
	RequiresPassword bool
	FileField        string
	PasswordField    string
	Notices          []notice
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	data.Action = r.URL.Path
	data.FileField = s.fileField
	data.PasswordField = s.passwordField

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := uploadPage.Execute(w, data); err != nil {
		s.log.Error(r.Context(), "render upload page", "error", err)
	}
}
