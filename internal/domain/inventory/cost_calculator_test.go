package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hubbi/inventario-core/internal/domain/inventory"
)

func TestWeightedAverageCost_PromedioPonderado(t *testing.T) {
	// 10 unidades a $5 + 10 unidades a $10 = promedio $7.5
	got := inventory.WeightedAverageCost(
		decimal.NewFromInt(10), decimal.NewFromInt(5),
		decimal.NewFromInt(10), decimal.NewFromInt(10),
	)
	assert.True(t, got.Equal(decimal.NewFromFloat(7.5)), "esperado 7.5, obtenido %s", got)
}

// Sin existencias previas el costo promedio es el costo de la entrada.
func TestWeightedAverageCost_SinStockPrevio(t *testing.T) {
	got := inventory.WeightedAverageCost(
		decimal.Zero, decimal.Zero,
		decimal.NewFromInt(4), decimal.NewFromFloat(12.5),
	)
	assert.True(t, got.Equal(decimal.NewFromFloat(12.5)), "esperado 12.5, obtenido %s", got)
}

// Con suma de cantidades no positiva (datos corruptos) devuelve cero en vez de dividir.
func TestWeightedAverageCost_SumaNoPositiva(t *testing.T) {
	got := inventory.WeightedAverageCost(
		decimal.NewFromInt(-5), decimal.NewFromInt(10),
		decimal.NewFromInt(5), decimal.NewFromInt(10),
	)
	assert.True(t, got.Equal(decimal.Zero), "esperado 0, obtenido %s", got)
}

// El costo previo no cambia si la entrada llega al mismo costo.
func TestWeightedAverageCost_MismoCostoEsEstable(t *testing.T) {
	got := inventory.WeightedAverageCost(
		decimal.NewFromInt(7), decimal.NewFromInt(3),
		decimal.NewFromInt(13), decimal.NewFromInt(3),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(3)), "esperado 3, obtenido %s", got)
}
