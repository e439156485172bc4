package fzf

import (
	"errors"
	"strings"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/notehub/internal/note"
)

func sample() []note.Note {
	return []note.Note{
		{ID: "n1", Title: "Standup", Content: "Blocked on review.", Tag: note.Meeting},
		{ID: "n2", Content: "eggs", Tag: note.Shopping},
	}
}

func TestRunReturnsChosenNote(t *testing.T) {
	f := NewFuzzyFinder(sample(), "Pick")
	var labels []string
	f.find = func(notes []note.Note, label func(int) string, opts ...fuzzyfinder.Option) (int, error) {
		for i := range notes {
			labels = append(labels, label(i))
		}
		require.Len(t, opts, 3)
		return 1, nil
	}

	n, err := f.Run("eg")
	require.NoError(t, err)
	require.Equal(t, "n2", n.ID)
	require.Equal(t, []string{"Standup [Meeting] ", "n2 [Shopping] "}, labels)
}

func TestRunAbort(t *testing.T) {
	f := NewFuzzyFinder(sample(), "")
	f.find = func([]note.Note, func(int) string, ...fuzzyfinder.Option) (int, error) {
		return -1, fuzzyfinder.ErrAbort
	}
	_, err := f.Run("")
	require.ErrorIs(t, err, ErrNoSelection)

	f.find = func([]note.Note, func(int) string, ...fuzzyfinder.Option) (int, error) {
		return -1, errors.New("tty gone")
	}
	_, err = f.Run("")
	require.ErrorContains(t, err, "tty gone")

	_, err = NewFuzzyFinder(nil, "").Run("")
	require.ErrorIs(t, err, ErrNoSelection)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sample()[0])
	require.True(t, strings.HasPrefix(md, "# Standup\n\n*Meeting · "))
	require.True(t, strings.HasSuffix(md, "Blocked on review."))
	require.Empty(t, NewFuzzyFinder(sample(), "").renderMarkdownPreview(-1, 80, 20))
}
