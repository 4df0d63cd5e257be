package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"taskman/internal/infrastructure/serialization"
)

// editTaskDocument writes doc to a temporary markdown file, opens
// $EDITOR on it and parses the result.
func editTaskDocument(doc serialization.TaskDocument) (serialization.TaskDocument, error) {
	data, err := serialization.MarshalTask(doc)
	if err != nil {
		return doc, err
	}

	tmpFile, err := os.CreateTemp("", "taskman-*.md")
	if err != nil {
		return doc, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return doc, fmt.Errorf("failed to write temporary file: %w", err)
	}
	tmpFile.Close()

	cmd := buildEditorCommand(os.Getenv("EDITOR"), tmpPath, serialization.TitleLine(data))
	cleanup, err := attachEditorIO(cmd)
	if err != nil {
		return doc, err
	}
	defer cleanup()

	if err := cmd.Run(); err != nil {
		return doc, fmt.Errorf("failed to run editor: %w", err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return doc, fmt.Errorf("failed to read temporary file: %w", err)
	}
	return serialization.ParseTask(edited)
}

// attachEditorIO connects the editor to the terminal, falling back to
// /dev/tty when stdin is a pipe.
func attachEditorIO(cmd *exec.Cmd) (func(), error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, err
	}

	if (stat.Mode() & os.ModeCharDevice) != 0 {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return func() {}, nil
	}

	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("no interactive terminal available (run without piping)")
	}

	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty

	return func() {
		_ = tty.Close()
	}, nil
}

// buildEditorCommand splits editor into argv and, for vi-style editors,
// places the cursor on line.
func buildEditorCommand(editor, path string, line int) *exec.Cmd {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		parts = []string{"vi"}
	}

	if line > 0 && isViStyleEditor(filepath.Base(parts[0])) {
		parts = append(parts, fmt.Sprintf("+%d", line))
	}
	parts = append(parts, path)

	return exec.Command(parts[0], parts[1:]...)
}

func isViStyleEditor(editor string) bool {
	switch editor {
	case "vi", "vim", "nvim":
		return true
	default:
		return false
	}
}
