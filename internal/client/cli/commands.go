package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/linkdrop/internal/client/capture"
	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"github.com/dmitrijs2005/linkdrop/internal/client/staging"
	"github.com/dmitrijs2005/linkdrop/internal/common"
)

// notifyInterrupt is a test seam: Ctrl-C during a submission cancels it.
var notifyInterrupt = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: add <paths...>")
		return errors.New("no paths")
	}
	accepted, rejected, err := a.capture.Pick(ctx, args...)
	return a.reportStaged(accepted, rejected, err)
}

func (a *App) Drop(ctx context.Context, sc *bufio.Scanner) error {
	a.capture.Enter()

	lines := ReadUntilBlank(sc)
	if len(lines) == 0 {
		a.capture.Leave()
		printlnFn("Nothing dropped")
		return nil
	}

	accepted, rejected, err := a.capture.Drop(ctx, strings.Join(lines, "\n"))
	return a.reportStaged(accepted, rejected, err)
}

func (a *App) reportStaged(accepted []*models.Entry, rejected []capture.Rejection, err error) error {
	for _, r := range rejected {
		printlnFn("Skipped", r.String())
	}
	if err != nil {
		printlnFn("Could not stage files:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Staged %d file(s)", len(accepted)))
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: remove <n>")
		return errors.New("bad arguments")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		printlnFn("Not a position:", args[0])
		return err
	}

	err = a.ctrl.Remove(n - 1)
	switch {
	case errors.Is(err, staging.ErrIndexOutOfRange):
		printlnFn("No file at position", n)
	case errors.Is(err, staging.ErrEntryBusy):
		printlnFn("File", n, "is being uploaded")
	case err != nil:
		printlnFn("Cannot remove:", err)
	}
	return err
}

func (a *App) List(ctx context.Context) error {
	a.screen.PrintList()
	return nil
}

func (a *App) Notices(ctx context.Context) error {
	a.screen.PrintNotices()
	return nil
}

func (a *App) Password(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "clear" {
		a.password = nil
		printlnFn("Password cleared")
		return nil
	}

	pw, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("Cannot read password:", err)
		return err
	}
	s := string(pw)
	common.WipeByteArray(pw)
	a.password = &s
	printlnFn("Password set")
	return nil
}

func (a *App) Submit(ctx context.Context) error {
	ctx, stop := notifyInterrupt(ctx)
	defer stop()

	var opts []staging.SubmitOption
	if a.password != nil {
		opts = append(opts, staging.WithPassword(*a.password))
	}

	s, err := a.ctrl.Submit(ctx, opts...)
	switch {
	case errors.Is(err, staging.ErrEmptySelection):
		// the view already shows the notice
		return err
	case err != nil:
		printlnFn("Cannot submit:", err)
		return err
	}

	printlnFn(summary(s))
	if s.Err != nil {
		a.log.Warn(ctx, "submission failed", "kind", s.Kind.String(), "error", s.Err)
	}
	return s.Err
}

func summary(s *staging.Settlement) string {
	return fmt.Sprintf("Upload finished: %s (%d uploaded, %d failed)", s.Kind, s.Succeeded, s.Failed)
}
