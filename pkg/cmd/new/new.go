package new

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/notehub/internal/draft"
	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/pkg/shared/session"
)

// pickTag asks for a tag on the terminal. Swapped out in tests.
var pickTag = func() (note.Tag, error) {
	sp := selection.New("Tag for the new note:", note.Tags)
	sp.PageSize = len(note.Tags)
	return sp.RunPrompt()
}

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

type options struct {
	title   string
	content string
	tag     string
}

func NewCmdNew(s *session.Session) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "new",
		Aliases: []string{"create", "c"},
		Short:   "Create a note from the saved draft.",
		Long: heredoc.Doc(`
			Creates a note from the draft, the same draft the browser's creation
			form edits. Flags overwrite the matching draft fields first, so a
			failed attempt keeps everything you typed for the next try.

			Starting a fresh draft without --tag on a terminal asks you to pick
			a tag.
		`),
		Example: heredoc.Doc(`
			notehub new --title "Buy milk" --tag shopping
			notehub new --content "- eggs"
			notehub new
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "Title of the note.")
	cmd.Flags().StringVar(&opts.content, "content", "", "Markdown body of the note.")
	cmd.Flags().StringVarP(&opts.tag, "tag", "t", "", "Tag of the note.")
	return cmd
}

func run(cmd *cobra.Command, s *session.Session, opts options) error {
	flags := cmd.Flags()

	var tag note.Tag
	if flags.Changed("tag") {
		t, err := note.ValidateTag(opts.tag)
		if err != nil {
			return err
		}
		tag = t
	}

	st, err := s.State()
	if err != nil {
		return err
	}

	fresh := st.Draft.Get().IsEmpty()
	st.Draft.Update(func(d *draft.Draft) {
		if flags.Changed("title") {
			d.Title = opts.title
		}
		if flags.Changed("content") {
			d.Content = opts.content
		}
		if tag.IsFilter() {
			d.Tag = tag
		}
	})

	// A resumed draft keeps its tag; a fresh one asks.
	if !flags.Changed("tag") && fresh && stdinIsTerminal() {
		picked, err := pickTag()
		if err != nil {
			return err
		}
		st.Draft.Update(func(d *draft.Draft) { d.Tag = picked })
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	n, err := st.Workflow.SubmitNow(ctx)
	switch {
	case errors.Is(err, draft.ErrTitleRequired):
		fmt.Fprintln(out, "Draft saved. Set a title with --title to create the note.")
		return err
	case err != nil:
		fmt.Fprintln(out, "Draft kept for the next attempt.")
		return err
	}

	fmt.Fprintf(out, "Created note %s (%s)\n", n.ID, n.Tag)
	return nil
}
