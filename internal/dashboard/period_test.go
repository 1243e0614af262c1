package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompressPeriod(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Текущий квартал (01.01.2026 - 31.03.2026)", "Тек. кв. (01.01-31.03)"},
		{"Прошлый квартал (01.10.2025 - 31.12.2025)", "Прош. кв. (01.10-31.12)"},
		{"Финансовый год (01.03.2025 - 28.02.2026)", "Фин. год (03.25-02.26)"},
		{"Текущий квартал(01.01.2026-31.03.2026)", "Тек. кв. (01.01-31.03)"},
		{"Текущий квартал", "Текущий квартал"},
		{"Финансовый год (2025)", "Финансовый год (2025)"},
		{"Январь", "Январь"},
		{"", ""},
		{"(01.01.2026 - 31.03.2026)", "(01.01.2026 - 31.03.2026)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CompressPeriod(tt.input))
		})
	}
}

func TestColumnAdapter(t *testing.T) {
	full := NewColumnAdapter(ViewportFull, true)
	assert.Equal(t, "Кол-во КП", full.Header("Кол-во КП"))
	assert.Equal(t, "Текущий квартал (01.01.2026 - 31.03.2026)", full.Value(0, "Текущий квартал (01.01.2026 - 31.03.2026)"))

	compact := NewColumnAdapter(ViewportCompact, true)
	assert.Equal(t, "КП", compact.Header("Кол-во КП"))
	assert.Equal(t, "Образцы", compact.Header("Кол-во образцов"))
	assert.Equal(t, "Произв.", compact.Header("Кол-во производств"))
	assert.Equal(t, "Конв.,%", compact.Header("Конверсия"))
	assert.Equal(t, "Период", compact.Header("Период"))
	assert.Equal(t, " Кол-во КП", compact.Header(" Кол-во КП"), "lookup is exact")
	assert.Equal(t, "Менеджер", compact.Header("Менеджер"))

	assert.Equal(t, "Тек. кв. (01.01-31.03)", compact.Value(0, "Текущий квартал (01.01.2026 - 31.03.2026)"))
	assert.Equal(t, "Текущий квартал (01.01.2026 - 31.03.2026)", compact.Value(1, "Текущий квартал (01.01.2026 - 31.03.2026)"))

	notPeriod := NewColumnAdapter(ViewportCompact, false)
	assert.Equal(t, "Текущий квартал (01.01.2026 - 31.03.2026)", notPeriod.Value(0, "Текущий квартал (01.01.2026 - 31.03.2026)"))
}
