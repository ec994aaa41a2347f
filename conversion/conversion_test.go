package conversion_test

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/kylycht/apex/conversion"
	"github.com/kylycht/apex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var table = model.RateTable{"USD": 1, "CNY": 7.1, "EUR": 0.92, "JPY": 149.85}

func TestConvertForward(t *testing.T) {
	out, err := conversion.ConvertForward(table, model.USD, model.CNY, "1")
	require.NoError(t, err)
	assert.Equal(t, "7.1000", out)
}

func TestConvertBackward(t *testing.T) {
	out, err := conversion.ConvertBackward(table, model.USD, model.CNY, "71")
	require.NoError(t, err)
	assert.Equal(t, "10.0000", out)
}

func TestConvert_UnparseableInput(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "1.2.3", "NaN", "Inf", "-Inf"} {
		t.Run(strconv.Quote(in), func(t *testing.T) {
			out, err := conversion.ConvertForward(table, model.USD, model.CNY, in)
			require.ErrorIs(t, err, conversion.ErrParse)
			assert.Empty(t, out)

			out, err = conversion.ConvertBackward(table, model.USD, model.CNY, in)
			require.ErrorIs(t, err, conversion.ErrParse)
			assert.Empty(t, out)
		})
	}
}

func TestConvert_MissingRate(t *testing.T) {
	partial := model.RateTable{"USD": 1}

	out, err := conversion.ConvertForward(partial, model.USD, model.KRW, "5")
	require.ErrorIs(t, err, conversion.ErrMissingRate)
	assert.Empty(t, out)

	_, ok := conversion.Forward(5, 1, 0)
	assert.False(t, ok)
	_, ok = conversion.Backward(5, 0, 1)
	assert.False(t, ok)

	assert.Equal(t, conversion.Placeholder, conversion.FormatUnitRate(partial, model.USD, model.KRW))
	assert.Equal(t, conversion.Placeholder, conversion.FormatUnitRate(model.RateTable{}, model.USD, model.CNY))
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		rateA := 0.01 + rnd.Float64()*1000
		rateB := 0.01 + rnd.Float64()*1000
		amount := rnd.Float64() * 10000

		b, ok := conversion.Forward(amount, rateA, rateB)
		require.True(t, ok)
		a, ok := conversion.Backward(b, rateA, rateB)
		require.True(t, ok)

		assert.InDelta(t, amount, a, 1e-4, "rateA=%v rateB=%v amount=%v", rateA, rateB, amount)
	}
}

func TestRoundTrip_Formatted(t *testing.T) {
	b, err := conversion.ConvertForward(table, model.USD, model.EUR, "250")
	require.NoError(t, err)

	a, err := conversion.ConvertBackward(table, model.USD, model.EUR, b)
	require.NoError(t, err)

	got, err := strconv.ParseFloat(a, 64)
	require.NoError(t, err)
	// 4-decimal rounding of b is amplified by rateA/rateB
	assert.InDelta(t, 250, got, 0.5e-4/0.92+1e-4)
}

func TestSameCurrency(t *testing.T) {
	assert.Equal(t, "1.0000", conversion.FormatUnitRate(table, model.JPY, model.JPY))

	out, err := conversion.ConvertForward(table, model.JPY, model.JPY, "123.45678")
	require.NoError(t, err)
	assert.Equal(t, "123.4568", out)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "7.1000", conversion.Format(7.1))
	assert.Equal(t, "0.0001", conversion.Format(0.00005))
	assert.Equal(t, "-2.5000", conversion.Format(-2.5))
	assert.Equal(t, "1000000.0000", conversion.Format(1e6))

	// rounding looks at the stored binary value, not the shortest decimal
	assert.Equal(t, "2.0002", conversion.Format(2.00025))
	// exact ties round away from zero
	assert.Equal(t, "0.0313", conversion.Format(0.03125))
	assert.Equal(t, "-0.0313", conversion.Format(-0.03125))

	assert.Empty(t, conversion.Format(math.Inf(1)))
	assert.Empty(t, conversion.Format(math.NaN()))
}

func TestUnitRate(t *testing.T) {
	r, ok := conversion.UnitRate(table, model.USD, model.CNY)
	require.True(t, ok)
	assert.InEpsilon(t, 7.1, r, 1e-9)
	assert.Equal(t, "7.1000", conversion.FormatUnitRate(table, model.USD, model.CNY))
}

func TestSwap_SelfInverse(t *testing.T) {
	s := model.ConversionState{AmountA: "3", AmountB: "21.3000", CurrencyA: model.USD, CurrencyB: model.CNY}

	swapped := conversion.Swap(s)
	assert.Equal(t, model.ConversionState{AmountA: "21.3000", AmountB: "3", CurrencyA: model.CNY, CurrencyB: model.USD}, swapped)
	assert.Equal(t, s, conversion.Swap(swapped))
}
