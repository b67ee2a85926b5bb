package staging

import "github.com/dmitrijs2005/linkdrop/internal/client/models"

// View is everything the controller shows. Calls are serialized by the
// controller, implementations need no locking of their own for it.
type View interface {
	// RenderList replaces the visible list with rows. submitVisible is true
	// iff at least one file is staged.
	RenderList(rows []Row, submitVisible bool)
	SetSubmitEnabled(enabled bool)
	// SetProgress shows the transport completion in percent.
	SetProgress(percent int)
	// SetProcessing toggles the "writing to disk" indicator.
	SetProcessing(active bool)
	// SetDots shows 0-3 animation dots next to the processing indicator.
	SetDots(n int)
	// ShowNotices replaces the displayed notices.
	ShowNotices(notices []models.Notice)
}

// Row is one rendered staging entry. Position is the index passed back to
// Controller.Remove.
type Row struct {
	Position  int
	ID        string
	Name      string
	Size      int64
	Status    models.Status
	Reason    string
	Removable bool
}

// Rows maps entries to rows. It depends on nothing but its input.
func Rows(entries []*models.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, Row{
			Position:  i,
			ID:        e.ID,
			Name:      e.Name,
			Size:      e.Size,
			Status:    e.Status,
			Reason:    e.Reason,
			Removable: e.Status != models.StatusUploading,
		})
	}
	return rows
}
