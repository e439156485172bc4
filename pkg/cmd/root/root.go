package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notehub/internal/constants"
	draftcmd "github.com/Paintersrp/notehub/pkg/cmd/draft"
	"github.com/Paintersrp/notehub/pkg/cmd/initialize"
	"github.com/Paintersrp/notehub/pkg/cmd/list"
	"github.com/Paintersrp/notehub/pkg/cmd/new"
	"github.com/Paintersrp/notehub/pkg/cmd/notes"
	"github.com/Paintersrp/notehub/pkg/cmd/open"
	"github.com/Paintersrp/notehub/pkg/cmd/tags"
	"github.com/Paintersrp/notehub/pkg/shared/flags"
	"github.com/Paintersrp/notehub/pkg/shared/session"
)

func NewCmdRoot(s *session.Session) *cobra.Command {
	notesCmd := notes.NewCmdNotes(s)

	cmd := &cobra.Command{
		Use:     "notehub [location]",
		Short:   "Browse and create NoteHub notes from the terminal.",
		Version: constants.Version,
		Long: heredoc.Doc(`
			Browse notes by tag, free-text search and page, and create new notes
			through a form whose draft survives closing it.

			Locations look like /notes/filter/<tag|all>?page=N&search=text. A bare
			tag such as "work" also works.
		`),
		Example: heredoc.Doc(`
			notehub
			notehub work --search standup
			notehub list --tag todo --page 2
			notehub new --title "Renew passport" --tag todo
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          notesCmd.RunE,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.Close()
		},
	}

	flags.AddRemote(cmd, &s.Options.Offline)
	// The bare command runs the browser, so it accepts the same flags.
	cmd.Flags().AddFlagSet(notesCmd.Flags())

	cmd.AddCommand(
		initialize.NewCmdInit(s),
		notesCmd,
		list.NewCmdList(s),
		new.NewCmdNew(s),
		open.NewCmdOpen(s),
		draftcmd.NewCmdDraft(s),
		tags.NewCmdTags(),
	)

	return cmd
}
