package capture

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ErrUnterminatedQuote is returned for a paste with an open quote.
var ErrUnterminatedQuote = errors.New("unterminated quote in pasted paths")

// SplitPaste splits a drag-and-drop paste into paths using shell word rules.
// file:// URIs, as pasted by some terminals, become plain paths.
func SplitPaste(payload string) ([]string, error) {
	// terminals on some platforms paste CRLF
	words, err := shellquote.Split(strings.ReplaceAll(payload, "\r", "\n"))
	if err != nil {
		if errors.Is(err, shellquote.UnterminatedSingleQuoteError) ||
			errors.Is(err, shellquote.UnterminatedDoubleQuoteError) ||
			errors.Is(err, shellquote.UnterminatedEscapeError) {
			return nil, fmt.Errorf("%w: %v", ErrUnterminatedQuote, err)
		}
		return nil, err
	}

	var paths []string
	for _, w := range words {
		paths = append(paths, fromURI(w))
	}
	return paths, nil
}

func fromURI(s string) string {
	if !strings.HasPrefix(s, "file://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return s
	}
	return u.Path
}
