package open

import (
	"context"
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notehub/internal/fzf"
	"github.com/Paintersrp/notehub/internal/location"
	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/notestore"
	"github.com/Paintersrp/notehub/pkg/shared/flags"
	"github.com/Paintersrp/notehub/pkg/shared/session"
)

// pick chooses a note from a page. Swapped out in tests.
var pick = func(notes []note.Note, query string) (note.Note, error) {
	return fzf.NewFuzzyFinder(notes, "Select a note to open.").Run(query)
}

const renderWidth = 100

func NewCmdOpen(s *session.Session) *cobra.Command {
	var (
		q     flags.Query
		match string
		raw   bool
	)

	cmd := &cobra.Command{
		Use:     "open [id]",
		Aliases: []string{"o", "show"},
		Short:   "Print a single note.",
		Long: heredoc.Doc(`
			Fetches a note by id and renders its markdown. Without an id, one page
			of notes is loaded and shown in a fuzzy finder with a preview.
		`),
		Example: heredoc.Doc(`
			notehub open 2f1c0f9e
			notehub open --tag work --match standup
			notehub open --raw n-12
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := s.State()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var n note.Note
			if len(args) == 1 {
				n, err = st.Store.GetNote(ctx, args[0])
				if errors.Is(err, notestore.ErrNotFound) {
					return fmt.Errorf("no note with id %q", args[0])
				}
				if err != nil {
					return err
				}
			} else {
				loc, err := flags.HandleQuery(cmd, &q, location.Root())
				if err != nil {
					return err
				}
				page, err := st.Cache.Load(ctx, loc.Key())
				if err != nil {
					return err
				}
				n, err = pick(page.Notes, match)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprint(out, fzf.Markdown(n))
				return nil
			}
			rendered, err := fzf.Render(n, renderWidth)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}

	flags.AddQuery(cmd, &q)
	cmd.Flags().StringVarP(&match, "match", "m", "", "Initial text for the fuzzy finder.")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown without rendering it.")
	return cmd
}
