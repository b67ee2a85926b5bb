// Package response turns a successful server reply into a models.Result.
//
// JSON is the primary contract. HTML pages carrying a flash-messages block
// are accepted as a legacy fallback when the caller enables it.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"github.com/dmitrijs2005/linkdrop/internal/client/transport"
)

// ErrUnsupportedContentType is returned for a body the decoder may not read.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// ErrMissingSuccess is returned for a JSON reply without the success key.
var ErrMissingSuccess = errors.New("reply has no success field")

// Decoder decodes reply bodies.
type Decoder struct {
	// AllowHTML enables the legacy HTML fragment fallback.
	AllowHTML bool
}

// Decode interprets resp. It does not look at the status code; the caller
// is expected to route only 2xx replies here.
func (d Decoder) Decode(resp *transport.Response) (*models.Result, error) {
	mediaType := ""
	if resp.ContentType != "" {
		mt, _, err := mime.ParseMediaType(resp.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, resp.ContentType)
		}
		mediaType = mt
	}

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return decodeJSON(resp.Body)
	case mediaType == "text/html" && d.AllowHTML:
		return decodeHTML(resp.Body)
	case mediaType == "" && looksLikeJSON(resp.Body):
		return decodeJSON(resp.Body)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, resp.ContentType)
	}
}

func looksLikeJSON(b []byte) bool {
	s := strings.TrimSpace(string(b))
	return strings.HasPrefix(s, "{")
}

// jsonReply is the wire shape. Success is a pointer so a body without the
// key is told apart from an explicit false.
type jsonReply struct {
	Success  *bool                `json:"success"`
	Outcomes []models.FileOutcome `json:"results"`
	Notices  []models.Notice      `json:"messages"`
}

func decodeJSON(body []byte) (*models.Result, error) {
	var r jsonReply
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if r.Success == nil {
		return nil, ErrMissingSuccess
	}
	return &models.Result{Success: *r.Success, Outcomes: r.Outcomes, Notices: r.Notices}, nil
}
