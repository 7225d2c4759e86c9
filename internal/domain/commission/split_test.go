package commission_test

import (
	"testing"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/commission"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSplit_VentaDirecta_TodaLaUtilidadEsDelAdmin(t *testing.T) {
	res, err := commission.Split(commission.Input{
		Quantity:         3,
		UnitPrice:        dec("150"),
		PurchasePrice:    dec("100"),
		DistributorPrice: dec("120"),
		CommissionPct:    dec("10"),
		Direct:           true,
	})
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(dec("450")))
	assert.True(t, res.AdminProfit.Equal(dec("150")))
	assert.True(t, res.DistributorProfit.IsZero())
	assert.True(t, res.CommissionPct.IsZero(), "una venta directa no lleva comisión")
}

func TestSplit_VentaDistribuidor_SinBono(t *testing.T) {
	res, err := commission.Split(commission.Input{
		Quantity:         2,
		UnitPrice:        dec("150"),
		PurchasePrice:    dec("100"),
		DistributorPrice: dec("120"),
		CommissionPct:    decimal.Zero,
	})
	require.NoError(t, err)
	assert.True(t, res.AdminProfit.Equal(dec("40")), "admin: 2 * (120-100)")
	assert.True(t, res.DistributorProfit.Equal(dec("60")), "distribuidor: 2 * (150-120)")
}

func TestSplit_VentaDistribuidor_ConBono(t *testing.T) {
	res, err := commission.Split(commission.Input{
		Quantity:         2,
		UnitPrice:        dec("150"),
		PurchasePrice:    dec("100"),
		DistributorPrice: dec("120"),
		CommissionPct:    dec("5"),
	})
	require.NoError(t, err)
	// bono = 40 * 5% = 2
	assert.True(t, res.AdminProfit.Equal(dec("38")))
	assert.True(t, res.DistributorProfit.Equal(dec("62")))
}

func TestSplit_SumaSiempreIgualUtilidadBruta(t *testing.T) {
	pcts := []string{"0", "0.5", "1", "3.33", "7", "12.5", "33.333", "99.99", "100"}
	for _, p := range pcts {
		res, err := commission.Split(commission.Input{
			Quantity:         7,
			UnitPrice:        dec("19.99"),
			PurchasePrice:    dec("11.37"),
			DistributorPrice: dec("14.81"),
			CommissionPct:    dec(p),
		})
		require.NoError(t, err, p)
		gross := res.Total.Sub(dec("7").Mul(dec("11.37")))
		assert.True(t, res.GrossProfit().Equal(gross),
			"pct %s: admin + distribuidor debe igualar la utilidad bruta (%s != %s)", p, res.GrossProfit(), gross)
		assert.True(t, res.DistributorProfit.Equal(res.DistributorProfit.Round(2)), "el bono se redondea a 2 decimales")
	}
}

func TestSplit_PorcentajeFueraDeRango(t *testing.T) {
	for _, p := range []string{"-0.01", "100.01", "250"} {
		_, err := commission.Split(commission.Input{
			Quantity:         1,
			UnitPrice:        dec("10"),
			PurchasePrice:    dec("5"),
			DistributorPrice: dec("8"),
			CommissionPct:    dec(p),
		})
		assert.ErrorIs(t, err, domain.ErrPercentageOutOfRange, p)
	}
}

func TestSplit_CantidadInvalida(t *testing.T) {
	_, err := commission.Split(commission.Input{Quantity: 0, UnitPrice: dec("10")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
