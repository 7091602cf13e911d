// Package publish exports tasks as Markdown: a grouped checklist index plus one
// page per task.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"taskdeck/internal/model"
)

type RenderOptions struct {
	// LinkTasks links checklist entries to their per-task pages.
	LinkTasks bool
}

type WriteOptions struct {
	Title     string
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteTasks writes <toDir>/index.md and <toDir>/tasks/<id>.md for every task.
// It stops on the first error.
func WriteTasks(tasks []model.Task, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	tasksDir := filepath.Join(toDir, "tasks")
	if err := os.MkdirAll(tasksDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(toDir, "index.md")
	index := RenderIndexMarkdown(opt.Title, tasks, RenderOptions{LinkTasks: true})
	if err := writeFile(indexPath, []byte(index), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	written := []string{indexPath}
	for _, t := range tasks {
		p := filepath.Join(toDir, filepath.FromSlash(taskPath(t.ID)))
		if err := writeFile(p, []byte(RenderTaskMarkdown(t)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
