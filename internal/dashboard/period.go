package dashboard

import (
	"fmt"
	"regexp"
)

const datePair = `\((\d{2})\.(\d{2})\.(\d{2})(\d{2})\s*-\s*(\d{2})\.(\d{2})\.(\d{2})(\d{2})\)`

var (
	currentQuarter  = regexp.MustCompile(`Текущий квартал[^(]*` + datePair)
	previousQuarter = regexp.MustCompile(`Прошлый квартал[^(]*` + datePair)
	fiscalYear      = regexp.MustCompile(`Финансовый год[^(]*` + datePair)
)

// CompressPeriod shortens the known period labels for narrow viewports:
//
//	"Текущий квартал (01.01.2026 - 31.03.2026)" -> "Тек. кв. (01.01-31.03)"
//	"Прошлый квартал (01.10.2025 - 31.12.2025)" -> "Прош. кв. (01.10-31.12)"
//	"Финансовый год (01.04.2025 - 31.03.2026)"  -> "Фин. год (04.25-03.26)"
//
// Anything else is returned unchanged.
func CompressPeriod(label string) string {
	if m := currentQuarter.FindStringSubmatch(label); m != nil {
		return fmt.Sprintf("Тек. кв. (%s.%s-%s.%s)", m[1], m[2], m[5], m[6])
	}
	if m := previousQuarter.FindStringSubmatch(label); m != nil {
		return fmt.Sprintf("Прош. кв. (%s.%s-%s.%s)", m[1], m[2], m[5], m[6])
	}
	if m := fiscalYear.FindStringSubmatch(label); m != nil {
		return fmt.Sprintf("Фин. год (%s.%s-%s.%s)", m[2], m[4], m[6], m[8])
	}
	return label
}
