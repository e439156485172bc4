package arg

import (
	"fmt"

	"github.com/Paintersrp/notehub/internal/location"
)

// HandleLocation reads the optional leading address argument. A bare tag
// such as "work" is accepted as well as a full address.
func HandleLocation(args []string) (location.Location, error) {
	if len(args) == 0 {
		return location.Root(), nil
	}

	l, err := location.Parse(args[0])
	if err != nil {
		return location.Location{}, fmt.Errorf("invalid location %q: %w", args[0], err)
	}
	return location.FromKey(l.Key()), nil
}
