package list

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notehub/internal/location"
	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/pkg/shared/arg"
	"github.com/Paintersrp/notehub/pkg/shared/flags"
	"github.com/Paintersrp/notehub/pkg/shared/session"
)

func NewCmdList(s *session.Session) *cobra.Command {
	var q flags.Query

	cmd := &cobra.Command{
		Use:     "list [location]",
		Aliases: []string{"ls"},
		Short:   "Print one page of notes.",
		Long: heredoc.Doc(`
			Prints the notes for a location as a table. Flags override the
			matching parts of the location.
		`),
		Example: heredoc.Doc(`
			notehub list
			notehub list work --page 2
			notehub list --search milk --tag shopping
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := arg.HandleLocation(args)
			if err != nil {
				return err
			}
			loc, err := flags.HandleQuery(cmd, &q, base)
			if err != nil {
				return err
			}
			return Print(cmd, s, loc)
		},
	}

	flags.AddQuery(cmd, &q)
	return cmd
}

// Print loads the page for loc through the query cache and writes it to the
// command's output.
func Print(cmd *cobra.Command, s *session.Session, loc location.Location) error {
	s.Options.Start = loc.String()
	st, err := s.State()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	key := loc.Key()
	page, err := st.Cache.Load(ctx, key)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, text.Bold.Sprint(key.Title()))
	fmt.Fprintln(out, loc.String())

	if page.Empty() {
		if key.Search != "" {
			fmt.Fprintf(out, "No notes match %q.\n", key.Search)
		} else {
			fmt.Fprintln(out, "No notes found.")
		}
		return nil
	}

	renderTable(cmd, page.Notes)
	if page.TotalPages > 1 {
		fmt.Fprintf(out, "Page %d of %d\n", key.Page, page.TotalPages)
	}
	return nil
}

func renderTable(cmd *cobra.Command, notes []note.Note) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{
		text.FgGreen.Sprint("ID"),
		text.FgGreen.Sprint("Title"),
		text.FgGreen.Sprint("Tag"),
		text.FgGreen.Sprint("Created"),
	})
	for _, n := range notes {
		t.AppendRow(table.Row{n.ID, n.Title, n.Tag.String(), n.CreatedLabel()})
	}
	t.Render()
}
