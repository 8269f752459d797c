package resolver

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/stellar/route-engine/internal/domain"
)

// routeID is a deterministic function of the path's node sequence and the
// query amount: same-path-same-amount queries produce stable ids within one
// process lifetime, sufficient to correlate log entries, without claiming
// global uniqueness across requests (spec.md §4.5.3 "Route id").
func routeID(nodes []domain.AssetKey, amount string) string {
	h := fnv.New64a()
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.String())
		b.WriteByte('>')
	}
	b.WriteString("|")
	b.WriteString(amount)
	_, _ = h.Write([]byte(b.String()))
	return fmt.Sprintf("rt_%016x", h.Sum64())
}
