package note

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Tag is one of the closed set of note tags. The zero value means "no
// filter" and is never a valid tag for a note.
type Tag string

const (
	NoTag    Tag = ""
	Todo     Tag = "Todo"
	Work     Tag = "Work"
	Personal Tag = "Personal"
	Meeting  Tag = "Meeting"
	Shopping Tag = "Shopping"
)

// AllSlug is the path segment used when no tag filter is applied.
const AllSlug = "all"

// Tags lists every recognised tag in display order.
var Tags = []Tag{Todo, Work, Personal, Meeting, Shopping}

// ParseTag matches s against the known tags ignoring case. Escaped path
// segments are unescaped first. "all", the empty string and unknown values
// all mean no filter.
func ParseTag(s string) Tag {
	raw := strings.TrimSpace(s)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}

	if raw == "" || strings.EqualFold(raw, AllSlug) {
		return NoTag
	}

	for _, t := range Tags {
		if strings.EqualFold(string(t), raw) {
			return t
		}
	}

	return NoTag
}

// ValidateTag is the strict variant of ParseTag used for note payloads.
func ValidateTag(s string) (Tag, error) {
	t := ParseTag(s)
	if t == NoTag {
		return NoTag, fmt.Errorf(
			"invalid tag: %q. Please choose from %s",
			s,
			tagList(),
		)
	}
	return t, nil
}

// IsFilter reports whether t restricts results to a single tag.
func (t Tag) IsFilter() bool {
	return t != NoTag
}

// Slug returns the path segment for t.
func (t Tag) Slug() string {
	if t == NoTag {
		return AllSlug
	}
	return string(t)
}

func (t Tag) String() string {
	if t == NoTag {
		return "All"
	}
	return string(t)
}

// Next cycles forward through NoTag followed by every tag.
func (t Tag) Next() Tag {
	cycle := append([]Tag{NoTag}, Tags...)
	for i, c := range cycle {
		if c == t {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return NoTag
}

// Prev cycles backwards through the same order as Next.
func (t Tag) Prev() Tag {
	cycle := append([]Tag{NoTag}, Tags...)
	for i, c := range cycle {
		if c == t {
			return cycle[(i-1+len(cycle))%len(cycle)]
		}
	}
	return NoTag
}

// UnmarshalJSON normalises the casing of tags coming from the store.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed := ParseTag(raw); parsed != NoTag {
		*t = parsed
		return nil
	}
	*t = Tag(raw)
	return nil
}

func tagList() string {
	quoted := make([]string, len(Tags))
	for i, t := range Tags {
		quoted[i] = fmt.Sprintf("'%s'", t)
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
