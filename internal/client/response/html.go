package response

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"golang.org/x/net/html"
)

const noticesClass = "flash-messages"

var knownCategories = map[string]models.Category{
	"success": models.CategorySuccess,
	"error":   models.CategoryError,
	"danger":  models.CategoryError,
	"warning": models.CategoryWarning,
	"info":    models.CategoryInfo,
	"message": models.CategoryInfo,
}

// decodeHTML extracts the notices block of a legacy page. A page without a
// block yields a Result flagged Reload.
func decodeHTML(body []byte) (*models.Result, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode html: %w", err)
	}

	block := findByClass(doc, noticesClass)
	if block == nil {
		return &models.Result{Success: true, Reload: true}, nil
	}

	return &models.Result{Success: true, Notices: collectNotices(block)}, nil
}

func classes(n *html.Node) []string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return strings.Fields(a.Val)
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

// category resolves "flash-error" or a bare "error" class.
func category(n *html.Node) (models.Category, bool) {
	for _, c := range classes(n) {
		name := strings.TrimPrefix(c, "flash-")
		if cat, ok := knownCategories[name]; ok {
			return cat, true
		}
	}
	return "", false
}

func collectNotices(block *html.Node) []models.Notice {
	var out []models.Notice
	for c := block.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if cat, ok := category(c); ok {
			if text := textOf(c); text != "" {
				out = append(out, models.Notice{Category: cat, Text: text})
			}
			continue
		}
		nested := collectNotices(c)
		if len(nested) == 0 {
			if text := textOf(c); text != "" {
				nested = []models.Notice{{Category: models.CategoryInfo, Text: text}}
			}
		}
		out = append(out, nested...)
	}
	return out
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
