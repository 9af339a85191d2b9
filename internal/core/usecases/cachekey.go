package usecases

import (
	"fmt"
	"sort"
	"strings"

	"github.com/asiergaray/detour/internal/core/domain"
)

// coordPrecision fixes endpoint coordinates to ~1 meter so that floating
// noise from geocoding does not split logically identical requests across
// cache keys.
const coordPrecision = "%.5f,%.5f"

// BuildRouteCacheKey derives the deterministic cache key for a sequencing
// request: ids are sorted so order does not matter, endpoints are rendered at
// fixed precision. Identical logical requests always share one key.
func BuildRouteCacheKey(ids []string, departure, arrival domain.GeoPoint) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString("opt:dep=")
	fmt.Fprintf(&b, coordPrecision, departure.Lat, departure.Lon)
	b.WriteString(":arr=")
	fmt.Fprintf(&b, coordPrecision, arrival.Lat, arrival.Lon)
	b.WriteString(":ids=")
	b.WriteString(strings.Join(sorted, ","))
	return b.String()
}
