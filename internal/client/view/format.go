package view

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"github.com/dmitrijs2005/linkdrop/internal/client/staging"
)

const (
	barWidth       = 30
	processingText = "Writing files to disk"
	emptyListText  = "No files staged. Use add or drop."
)

var noticePrefix = map[models.Category]string{
	models.CategorySuccess: "[ok]",
	models.CategoryError:   "[error]",
	models.CategoryWarning: "[warn]",
	models.CategoryInfo:    "[info]",
}

// FormatRow renders one list row with a 1-based position.
func FormatRow(r staging.Row) string {
	status := r.Status.String()
	if r.Status == models.StatusFailed && r.Reason != "" {
		status = fmt.Sprintf("%s: %s", status, r.Reason)
	}
	return fmt.Sprintf("%3d. %s (%s) %s", r.Position+1, r.Name, humanize.Bytes(uint64(max(r.Size, 0))), status)
}

// FormatList renders rows, followed by the submit hint when submitVisible.
func FormatList(rows []staging.Row, submitVisible bool) string {
	if len(rows) == 0 {
		return emptyListText
	}

	var total int64
	lines := make([]string, 0, len(rows)+1)
	for _, r := range rows {
		lines = append(lines, FormatRow(r))
		total += r.Size
	}
	if submitVisible {
		lines = append(lines, fmt.Sprintf("%d file(s), %s. Type submit to upload.", len(rows), humanize.Bytes(uint64(max(total, 0)))))
	}
	return strings.Join(lines, "\n")
}

// FormatNotice renders a notice with its category marker.
func FormatNotice(n models.Notice) string {
	prefix, ok := noticePrefix[n.Category]
	if !ok {
		prefix = "[" + string(n.Category) + "]"
	}
	return prefix + " " + n.Text
}

// ProgressBar renders percent as a fixed width bar.
func ProgressBar(percent int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * barWidth / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat(" ", barWidth-filled), percent)
}

// ProcessingLine renders the processing indicator with n dots, padded so a
// shorter frame overwrites a longer one.
func ProcessingLine(n int) string {
	n = min(max(n, 0), 3)
	return processingText + strings.Repeat(".", n) + strings.Repeat(" ", 3-n)
}
