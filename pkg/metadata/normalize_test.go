package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Ana Ruiz", CleanName("  Ana \t  Ruiz \n"))
	assert.Equal(t, "", CleanName("   "))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"Finance", "  finance "},
		{"Acme   Corp", "ACME corp"},
		{"Área", "área"},
	}

	for _, tt := range tests {
		t.Run(tt.a, func(t *testing.T) {
			assert.Equal(t, NormalizeName(tt.a), NormalizeName(tt.b))
		})
	}

	assert.NotEqual(t, NormalizeName("Area"), NormalizeName("Área"))
}

func TestHeaderKey(t *testing.T) {
	assert.Equal(t, "area", HeaderKey("Área"))
	assert.Equal(t, "quien entrega", HeaderKey(" Quién  Entrega "))
	assert.Equal(t, "tipo equipo", HeaderKey("tipo_equipo"))
	assert.Equal(t, "memoria ram", HeaderKey("MEMORIA RAM"))
}
