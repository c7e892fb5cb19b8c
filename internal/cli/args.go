package cli

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/flatcms/internal/server/config"
)

// CommandArgs drops the config loader's flags that precede the command and
// returns the command name followed by everything after it.
func CommandArgs(args []string) []string {
	known := config.KnownFlags()

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return args[i:]
		}
		name, _, withValue := strings.Cut(arg, "=")
		if withValue || !slices.Contains(known, name) {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}
	return nil
}
