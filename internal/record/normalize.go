// Package record normalizes extracted field maps before persistence:
// key completion, whitespace/punctuation hygiene, and assembly of the
// canonical full address.
package record

import (
	"strings"

	"github.com/vanadhikar/fra-claims/constants"
	"github.com/vanadhikar/fra-claims/internal/llm"
)

// addressParts lists the components of the full address in order.
var addressParts = []string{
	constants.FieldAddress,
	constants.FieldVillage,
	constants.FieldGramPanchayat,
	constants.FieldTehsilTaluka,
	constants.FieldDistrict,
	constants.FieldState,
}

// Normalize guarantees the twelve schema keys, trims every value,
// canonicalizes the Yes/No flags, and assembles the full address.
// It is pure and idempotent: applying it to its own output is a no-op.
func Normalize(fields llm.FieldMap) (llm.FieldMap, string) {
	out := fields.Clone().Complete()
	for k, v := range out {
		v = strings.TrimSpace(v)
		if _, yn := constants.YesNoFields[k]; yn {
			v = llm.CanonicalYesNo(v)
		}
		out[k] = v
	}
	return out, FullAddress(out)
}

// FullAddress joins address, village, gram panchayat, tehsil/taluka,
// district and state with ", ", trimming surrounding whitespace and
// periods from each component and dropping empty ones.
func FullAddress(fields llm.FieldMap) string {
	parts := make([]string, 0, len(addressParts))
	for _, k := range addressParts {
		p := strings.TrimSpace(fields[k])
		p = strings.Trim(p, ".")
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
