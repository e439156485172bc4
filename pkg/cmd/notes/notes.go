package notes

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	tuinotes "github.com/Paintersrp/notehub/internal/tui/notes"
	"github.com/Paintersrp/notehub/pkg/cmd/list"
	"github.com/Paintersrp/notehub/pkg/shared/arg"
	"github.com/Paintersrp/notehub/pkg/shared/flags"
	"github.com/Paintersrp/notehub/pkg/shared/session"
)

// isTerminal is swapped out in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

func NewCmdNotes(s *session.Session) *cobra.Command {
	var q flags.Query

	cmd := &cobra.Command{
		Use:     "notes [location]",
		Aliases: []string{"n", "browse"},
		Short:   "Open the interactive notes browser.",
		Long: heredoc.Doc(`
			Opens the notes browser at the given location. Typing in the search
			box commits the search once you pause, page and tag keys move through
			the listing, and C opens the creation form.

			When stdout is not a terminal the page is printed as a table instead.
		`),
		Example: heredoc.Doc(`
			notehub notes
			notehub notes /notes/filter/work?page=2
			notehub notes --tag meeting --search standup
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

			if !isTerminal() {
				return list.Print(cmd, s, loc)
			}

			s.Options.Start = loc.String()
			s.Options.WatchDraft = true
			st, err := s.State()
			if err != nil {
				return err
			}
			return tuinotes.Run(st)
		},
	}

	flags.AddQuery(cmd, &q)
	return cmd
}
