package msg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Iron-Ham/tailpin/internal/attach"
	"github.com/Iron-Ham/tailpin/internal/tail"
	"github.com/Iron-Ham/tailpin/internal/testutil"
)

func TestTick(t *testing.T) {
	cmd := Tick(20 * time.Millisecond)

	if cmd == nil {
		t.Fatal("Tick() returned nil command")
	}

	// Execute the command and verify the message type
	start := time.Now()
	result := cmd()
	elapsed := time.Since(start)

	if elapsed < 10*time.Millisecond {
		t.Errorf("Tick() returned too quickly: %v", elapsed)
	}

	if _, ok := result.(TickMsg); !ok {
		t.Errorf("Tick() returned %T, want TickMsg", result)
	}
}

func TestWaitForLine(t *testing.T) {
	t.Run("delivers a line", func(t *testing.T) {
		lines := make(chan tail.Line, 1)
		lines <- tail.Line{File: "app.log", Text: "hello"}

		result := WaitForLine(lines)()
		got, ok := result.(LineMsg)
		if !ok {
			t.Fatalf("WaitForLine() returned %T, want LineMsg", result)
		}
		if got.Line.File != "app.log" || got.Line.Text != "hello" {
			t.Errorf("LineMsg.Line = %+v", got.Line)
		}
	})

	t.Run("closed channel", func(t *testing.T) {
		lines := make(chan tail.Line)
		close(lines)

		if _, ok := WaitForLine(lines)().(TailClosedMsg); !ok {
			t.Error("WaitForLine() on a closed channel should return TailClosedMsg")
		}
	})
}

func TestWaitForTailError(t *testing.T) {
	errs := make(chan error, 1)
	boom := errors.New("boom")
	errs <- boom

	got, ok := WaitForTailError(errs)().(TailErrMsg)
	if !ok || !errors.Is(got.Err, boom) {
		t.Errorf("WaitForTailError() = %v, want TailErrMsg wrapping boom", got)
	}

	close(errs)
	if result := WaitForTailError(errs)(); result != nil {
		t.Errorf("WaitForTailError() on a closed channel = %v, want nil", result)
	}
}

func TestLoadAttachment(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "notes.txt", "one\ntwo\n")
	loader := attach.NewLoader(dir, 10, nil)

	result := LoadAttachment(context.Background(), loader, 7, "notes.txt")()
	got, ok := result.(AttachLoadedMsg)
	if !ok {
		t.Fatalf("LoadAttachment() returned %T, want AttachLoadedMsg", result)
	}
	if got.ID != 7 {
		t.Errorf("AttachLoadedMsg.ID = %d, want 7", got.ID)
	}
	if got.Result.Err != nil || got.Result.Height != 2 {
		t.Errorf("AttachLoadedMsg.Result = %+v, want two rows", got.Result)
	}
}

func TestCopyToClipboard(t *testing.T) {
	var written string
	write := func(text string) error {
		written = text
		return nil
	}

	got, ok := CopyToClipboard(write, "a\nb", 2)().(CopiedMsg)
	if !ok {
		t.Fatal("CopyToClipboard() should return CopiedMsg")
	}
	if got.Err != nil || got.Lines != 2 {
		t.Errorf("CopiedMsg = %+v, want 2 lines without error", got)
	}
	if written != "a\nb" {
		t.Errorf("clipboard got %q, want %q", written, "a\nb")
	}

	failing := func(string) error { return errors.New("no clipboard") }
	if got := CopyToClipboard(failing, "x", 1)().(CopiedMsg); got.Err == nil {
		t.Error("CopiedMsg.Err should carry the write error")
	}
}

func TestClearNoticeAfter(t *testing.T) {
	result := ClearNoticeAfter(time.Millisecond, 3)()
	if got, ok := result.(ClearNoticeMsg); !ok || got.Seq != 3 {
		t.Errorf("ClearNoticeAfter() = %v, want ClearNoticeMsg{Seq: 3}", result)
	}
}
