/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package tags

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notehub/internal/location"
	"github.com/Paintersrp/notehub/internal/note"
)

func NewCmdTags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List the note tags and their browsing addresses.",
		Long:  "Lists every tag a note can carry together with the location that filters the browser by it.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Tag", "Location"})
			t.AppendRow(table.Row{note.NoTag.String(), location.TagPath(note.NoTag)})
			for _, tag := range note.Tags {
				t.AppendRow(table.Row{tag.String(), location.TagPath(tag)})
			}
			t.Render()
		},
	}

	return cmd
}
