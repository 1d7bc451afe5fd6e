// Package hash computes a stable fingerprint for a value, for use as a
// reproducibility check rather than as a security digest.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// Fingerprint returns a hex digest identifying object. Callers that need a
// deterministic result across runs (e.g. comparing two loaded chemistries)
// must pass ordered data (slices, not maps) since gob does not guarantee
// map iteration order.
func Fingerprint(object interface{}) string {
	h := fnv.New128a()
	e := gob.NewEncoder(h)
	if err := e.Encode(object); err == nil {
		return fmt.Sprintf("%x", h.Sum(nil))
	}
	// gob can't encode some shapes (e.g. unexported fields via interfaces);
	// fall back to a textual dump.
	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	printer.Fprintf(h, "%#v", object)
	return fmt.Sprintf("%x", h.Sum(nil))
}
