package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Apply executes the deletions in a plan. A path that is already gone counts
// as done, and a failure on one path never stops the rest; whatever went
// wrong comes back as warnings.
func Apply(root string, p Plan) []string {
	var warns []string
	for _, rel := range p.Delete {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.RemoveAll(full); err != nil {
			warns = append(warns, fmt.Sprintf("delete %s: %v", rel, err))
		}
	}
	return warns
}
