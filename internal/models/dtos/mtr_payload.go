package dtos

import (
	"strings"
	"time"

	"steel-ledger/mtrledger/internal/coerce"
)

// MtrPayload is the decoded form of an MTR upsert request. Only HeatNumber and
// BatchNumber are required; every other field is optional and nil when absent.
type MtrPayload struct {
	HeatNumber        string `validate:"required"`
	BatchNumber       string `validate:"required"`
	Grade             *string
	Manufacturer      *string
	CertificateNumber *string
	CertificateDate   *time.Time

	C, Mn, Si, P, S, Cu, Ni, Cr, Mo, N *float64

	YieldStrength   *float64
	TensileStrength *float64
	Elongation      *float64
	ReductionArea   *float64
	Hardness        *float64

	ImpactTestTemp   *float64
	ImpactCouponSize *string
	ImpactSpecimen1  *float64
	ImpactSpecimen2  *float64
	ImpactSpecimen3  *float64
	ImpactAverage    *float64

	CountryOfMelt        *string
	CountryOfManufacture *string
	SourceFile           *string
}

// MtrPayloadFromMap reads known keys from a decoded JSON object and ignores the rest.
// Element keys accept the qualified name (c_element) or the symbol (c); the first
// non-empty one wins.
func MtrPayloadFromMap(m map[string]any) MtrPayload {
	el := func(symbol string) *float64 {
		return coerce.Float(firstPresent(m, symbol+"_element", symbol))
	}

	return MtrPayload{
		HeatNumber:        keyText(m["heat_number"]),
		BatchNumber:       keyText(m["batch_number"]),
		Grade:             coerce.Text(m["grade"]),
		Manufacturer:      coerce.Text(m["manufacturer"]),
		CertificateNumber: coerce.Text(m["certificate_number"]),
		CertificateDate:   coerce.Date(m["certificate_date"]),

		C:  el("c"),
		Mn: el("mn"),
		Si: el("si"),
		P:  el("p"),
		S:  el("s"),
		Cu: el("cu"),
		Ni: el("ni"),
		Cr: el("cr"),
		Mo: el("mo"),
		N:  el("n"),

		YieldStrength:   coerce.Float(m["yield_strength"]),
		TensileStrength: coerce.Float(m["tensile_strength"]),
		Elongation:      coerce.Float(m["elongation"]),
		ReductionArea:   coerce.Float(m["reduction_area"]),
		Hardness:        coerce.Float(m["hardness"]),

		ImpactTestTemp:   coerce.Float(m["impact_test_temp"]),
		ImpactCouponSize: coerce.Text(m["impact_coupon_size"]),
		ImpactSpecimen1:  coerce.Float(m["impact_specimen_1"]),
		ImpactSpecimen2:  coerce.Float(m["impact_specimen_2"]),
		ImpactSpecimen3:  coerce.Float(m["impact_specimen_3"]),
		ImpactAverage:    coerce.Float(m["impact_average"]),

		CountryOfMelt:        coerce.Text(m["country_of_melt"]),
		CountryOfManufacture: coerce.Text(m["country_of_manufacture"]),
		SourceFile:           coerce.Text(m["source_file"]),
	}
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && !coerce.IsBlank(v) {
			return v
		}
	}
	return nil
}

// keyText renders a key field. Objects and arrays count as missing.
func keyText(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		return ""
	}
	return strings.TrimSpace(coerce.String(v))
}
