package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	t.Run("Parses email name and phone", func(t *testing.T) {
		input := "Name,Email,Mobile\n\"Lovelace, Ada\",ada@example.com,+31 6 1234 5678\nGrace,grace@example.com,\n"

		rows, err := ParseCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "ada@example.com", rows[0].Email)
		require.NotNil(t, rows[0].Name)
		assert.Equal(t, "Lovelace, Ada", *rows[0].Name)
		require.NotNil(t, rows[0].Phone)
		assert.Equal(t, "+31 6 1234 5678", *rows[0].Phone)

		assert.Equal(t, "grace@example.com", rows[1].Email)
		assert.Nil(t, rows[1].Phone)
	})

	t.Run("Email column only", func(t *testing.T) {
		rows, err := ParseCSV(strings.NewReader("email\nada@example.com\n\n"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Nil(t, rows[0].Name)
	})

	t.Run("Short rows are padded", func(t *testing.T) {
		rows, err := ParseCSV(strings.NewReader("email,name\nada@example.com\n"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Nil(t, rows[0].Name)
	})

	t.Run("Missing email column", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("name,phone\nAda,+4915112345678\n"))
		assert.ErrorIs(t, err, ErrMissingEmailColumn)
	})

	t.Run("Header only", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("email,name\n"))
		assert.ErrorIs(t, err, ErrNoRows)
	})
}
