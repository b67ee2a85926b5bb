package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"github.com/dmitrijs2005/linkdrop/internal/client/staging"
)

func TestFormatRow(t *testing.T) {
	tests := []struct {
		name string
		row  staging.Row
		want string
	}{
		{
			name: "ready",
			row:  staging.Row{Position: 0, Name: "a.txt", Size: 1500, Status: models.StatusReady},
			want: "  1. a.txt (1.5 kB) Ready for Upload",
		},
		{
			name: "failed with reason",
			row:  staging.Row{Position: 9, Name: "b.bin", Size: 5, Status: models.StatusFailed, Reason: "too large"},
			want: " 10. b.bin (5 B) Failed: too large",
		},
		{
			name: "uploading",
			row:  staging.Row{Position: 1, Name: "c", Size: 0, Status: models.StatusUploading},
			want: "  2. c (0 B) Uploading",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRow(tt.row))
		})
	}
}

func TestFormatList(t *testing.T) {
	assert.Equal(t, emptyListText, FormatList(nil, false))

	got := FormatList([]staging.Row{
		{Position: 0, Name: "a", Size: 1000},
		{Position: 1, Name: "b", Size: 2000},
	}, true)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2 file(s), 3.0 kB. Type submit to upload.", lines[2])
}

func TestFormatNotice(t *testing.T) {
	assert.Equal(t, "[ok] done", FormatNotice(models.Notice{Category: models.CategorySuccess, Text: "done"}))
	assert.Equal(t, "[error] bad", FormatNotice(models.Notice{Category: models.CategoryError, Text: "bad"}))
	assert.Equal(t, "[warn] hm", FormatNotice(models.Notice{Category: models.CategoryWarning, Text: "hm"}))
	assert.Equal(t, "[info] fyi", FormatNotice(models.Notice{Category: models.CategoryInfo, Text: "fyi"}))
	assert.Equal(t, "[danger] x", FormatNotice(models.Notice{Category: "danger", Text: "x"}))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat(" ", barWidth)+"]   0%", ProgressBar(0))
	assert.Equal(t, "["+strings.Repeat("#", barWidth/2)+strings.Repeat(" ", barWidth/2)+"]  50%", ProgressBar(50))
	assert.Equal(t, "["+strings.Repeat("#", barWidth)+"] 100%", ProgressBar(150))
}

func TestProcessingLine(t *testing.T) {
	assert.Equal(t, "Writing files to disk   ", ProcessingLine(0))
	assert.Equal(t, "Writing files to disk.. ", ProcessingLine(2))
	assert.Equal(t, len(ProcessingLine(0)), len(ProcessingLine(3)))
}

func TestTerminal_SubmissionOutput(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.RenderList([]staging.Row{{Position: 0, Name: "a", Size: 1, Status: models.StatusUploading}}, true)
	term.SetSubmitEnabled(false)
	term.SetProgress(0)
	term.SetProgress(100)
	term.SetProcessing(true)
	term.SetDots(1)
	term.SetDots(0)
	term.SetProcessing(false)
	term.SetSubmitEnabled(true)
	term.SetProgress(0)
	term.ShowNotices([]models.Notice{{Category: models.CategorySuccess, Text: "saved"}})
	term.RenderList(nil, false)

	out := buf.String()
	assert.Contains(t, out, "\r"+ProgressBar(100))
	assert.Contains(t, out, "\r"+ProcessingLine(1))
	assert.Contains(t, out, "[ok] saved\n")
	assert.True(t, strings.HasSuffix(out, emptyListText+"\n"))
	// the reset to 0 after settlement is not drawn
	assert.Equal(t, 1, strings.Count(out, ProgressBar(0)))
}

func TestTerminal_DotsIgnoredWhenIdle(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	term.SetDots(2)
	assert.Empty(t, buf.String())
}

func TestTerminal_HighlightAndReprint(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.SetHighlight(true)
	term.SetHighlight(true)
	assert.True(t, term.Highlighted())
	term.SetHighlight(false)
	assert.False(t, term.Highlighted())
	assert.Equal(t, 1, strings.Count(buf.String(), "Drop zone active"))

	buf.Reset()
	term.PrintNotices()
	assert.Equal(t, "No notices.\n", buf.String())

	buf.Reset()
	term.RenderList([]staging.Row{{Position: 0, Name: "z", Size: 3}}, true)
	buf.Reset()
	term.PrintList()
	assert.Contains(t, buf.String(), "  1. z (3 B) Ready for Upload")
}
