package format

import (
	"bytes"
	"strings"
	"testing"

	"taskdeck/internal/model"
)

func TestWriteJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	st := model.Stats{DueToday: 1, Overdue: 2, Completed: 3, Pending: 4}
	if err := Write(&buf, map[string]any{"data": st}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{"data":{"due_today":1,"overdue":2,"completed":3,"pending":4}}` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteEDN(t *testing.T) {
	cases := []struct {
		name   string
		v      any
		pretty bool
		want   string
	}{
		{"stats", model.Stats{DueToday: 1}, false, "{:completed 0 :due-today 1 :overdue 0 :pending 0}\n"},
		{"vector", []any{"a", 1.5, true, nil}, false, "[\"a\" 1.5 true nil]\n"},
		{"empty", map[string]any{"xs": []any{}}, false, "{:xs []}\n"},
		{"pretty", map[string]any{"a": []int{1, 2}}, true, "{\n  :a [\n    1\n    2\n  ]\n}\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteEDN(&buf, tc.v, tc.pretty); err != nil {
				t.Fatalf("WriteEDN: %v", err)
			}
			if buf.String() != tc.want {
				t.Fatalf("got %q, want %q", buf.String(), tc.want)
			}
		})
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	task := model.Task{ID: 7, Title: "Write report", Priority: model.PriorityHigh, Status: model.StatusPending, Order: 2}
	if err := Write(&buf, map[string]any{"data": []model.Task{task}}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"data:", "- id: 7", "title: Write report", "priority: High", "order_index: 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "due_date") {
		t.Fatalf("empty due date should be omitted:\n%s", out)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error")
	}
	if Valid("xml") || !Valid("EDN") || !Valid("") {
		t.Fatalf("Valid mismatch")
	}
}
