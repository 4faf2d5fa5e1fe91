package utils

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/VoxDroid/hotcmd/internal/executor"
)

// OpenEditor opens the given file in the user's preferred editor and waits
// for it to exit.
func OpenEditor(path string) error {
	cmd := EditorCommand(path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	return nil
}

// EditorCommand builds the editor invocation for path without running it.
// It respects $VISUAL, then $EDITOR. On Windows if neither is set,
// it falls back to notepad; on Unix it falls back to vi.
func EditorCommand(path string) *exec.Cmd {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		if runtime.GOOS == "windows" {
			editor = "notepad"
		} else {
			editor = "vi"
		}
	}
	// "code --wait" style values carry flags; a path to an existing file is used as is
	args := []string{editor, path}
	if _, err := os.Stat(editor); err != nil {
		args = append(executor.SplitArgs(editor), path)
	}
	return exec.Command(args[0], args[1:]...)
}
