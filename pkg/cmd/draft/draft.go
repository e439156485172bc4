package draft

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/notehub/pkg/shared/session"
)

func NewCmdDraft(s *session.Session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or discard the saved draft.",
		Long: heredoc.Doc(`
			The draft is the note being composed. It is shared by the browser's
			creation form and the new command, and is kept until a note is created
			from it or it is cleared here.
		`),
	}

	cmd.AddCommand(newCmdShow(s))
	cmd.AddCommand(newCmdClear(s))
	return cmd
}

func newCmdShow(s *session.Session) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"s"},
		Short:   "Print the saved draft as YAML.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := s.State()
			if err != nil {
				return err
			}

			d := st.Draft.Get()
			if d.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No draft")
				return nil
			}

			data, err := yaml.Marshal(d)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newCmdClear(s *session.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the saved draft.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := s.State()
			if err != nil {
				return err
			}
			st.Draft.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Draft cleared")
			return nil
		},
	}
}
