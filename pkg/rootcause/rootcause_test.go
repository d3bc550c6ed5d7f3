package rootcause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Run("should encode nothing when no category is marked", func(t *testing.T) {
		assert.Equal(t, "", NewCollector().Encode())
	})

	t.Run("should encode categories in fixed order regardless of marking order", func(t *testing.T) {
		c := NewCollector()
		require.NoError(t, c.Mark("Medición", []string{"a", "b", "c", "d", "e"}))
		require.NoError(t, c.Mark("Máquina", []string{" worn tool ", "no PM", "", "", ""}))

		assert.Equal(t, "Máquina:|worn tool||no PM||||||;;Medición:|a||b||c||d||e", c.Encode())
	})

	t.Run("should pad missing answers", func(t *testing.T) {
		c := NewCollector()
		require.NoError(t, c.Mark("Material", []string{"wrong alloy"}))
		assert.Equal(t, "Material:|wrong alloy||||||||", c.Encode())
	})

	t.Run("should reject unknown categories and extra answers", func(t *testing.T) {
		c := NewCollector()
		assert.ErrorIs(t, c.Mark("Money", nil), ErrUnknownCategory)
		assert.ErrorIs(t, c.Mark("Método", []string{"1", "2", "3", "4", "5", "6"}), ErrTooManyAnswers)
		assert.Equal(t, "", c.Encode())
	})

	t.Run("should drop unmarked categories", func(t *testing.T) {
		c := NewCollector()
		require.NoError(t, c.Mark("Método", nil))
		c.Unmark("Método")
		assert.Equal(t, "", c.Encode())
	})
}

func TestDecode(t *testing.T) {
	t.Run("should decode what was encoded", func(t *testing.T) {
		c, err := FromAnalysis(Analysis{
			"Mano de obra":   {"untrained", "new hire", "", "", ""},
			"Medio ambiente": {"humidity", "", "", "", ""},
		})
		require.NoError(t, err)

		decoded, err := Decode(c.Encode())
		require.NoError(t, err)
		assert.Equal(t, c.Analysis(), decoded)
	})

	t.Run("should decode the empty string as no analysis", func(t *testing.T) {
		a, err := Decode("")
		require.NoError(t, err)
		assert.Empty(t, a)
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		_, err := Decode("Máquina-no-separator")
		assert.ErrorIs(t, err, ErrMalformed)
		_, err = Decode("Dinero:|a||b")
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})
}

func TestFormat(t *testing.T) {
	out := Format(Analysis{"Método": {"a", "b", "c", "d", "e"}})
	assert.Equal(t, "--- Método ---\n1) a\n2) b\n3) c\n4) d\n5) e", out)
}
