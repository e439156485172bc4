package flags

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/notehub/internal/location"
	"github.com/Paintersrp/notehub/internal/note"
)

func parse(t *testing.T, base string, args ...string) (location.Location, error) {
	t.Helper()

	var q Query
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	AddQuery(cmd, &q)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	l, err := location.Parse(base)
	if err != nil {
		t.Fatalf("parse base: %v", err)
	}
	return HandleQuery(cmd, &q, l)
}

func TestHandleQueryLayersFlags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		base string
		args []string
		want string
	}{
		{"untouched", "/notes/filter/Work?page=3&search=q", nil, "/notes/filter/Work?page=3&search=q"},
		{"tag", "/notes/filter/all", []string{"--tag", "meeting"}, "/notes/filter/Meeting"},
		{"all", "/notes/filter/Work", []string{"-t", "all"}, "/notes/filter/all"},
		{"search and page", "/notes/filter/Todo", []string{"-s", " milk ", "-p", "2"}, "/notes/filter/Todo?page=2&search=milk"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parse(t, tc.base, tc.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tc.want {
				t.Fatalf("got %q, want %q", got.String(), tc.want)
			}
		})
	}
}

func TestHandleQueryRejectsBadValues(t *testing.T) {
	t.Parallel()

	if _, err := parse(t, "", "--tag", "groceries"); err == nil {
		t.Fatal("expected unknown tag error")
	}
	if _, err := parse(t, "", "--page", "0"); err == nil {
		t.Fatal("expected invalid page error")
	}
	if l, err := parse(t, "", "--tag", "SHOPPING"); err != nil || l.Key().Tag != note.Shopping {
		t.Fatalf("expected case-insensitive tag, got %v %v", l, err)
	}
}
