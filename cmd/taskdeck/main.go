package main

import (
	"os"
	"strconv"
	"strings"

	"taskdeck/internal/cli"
)

// isTaskID accepts "12" and "#12".
func isTaskID(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

// rewriteDirectTaskLookupArgs turns `taskdeck <id>` into `taskdeck tasks show <id>`.
// Cobra reads the first positional token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first (`taskdeck --server URL 12`).
func rewriteDirectTaskLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value, so an id after them
	// is never swallowed.
	valueFlags := map[string]bool{
		"--server":    true,
		"--format":    true,
		"--debug-log": true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "tasks", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isTaskID(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-") && !isNegativeNumber(a):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if isTaskID(a) {
			return insert(i)
		}
		return argv
	}
	return argv
}

func isNegativeNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func main() {
	os.Args = rewriteDirectTaskLookupArgs(os.Args)

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
