package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booknet/internal/entities"
)

func TestIsValidISBN(t *testing.T) {
	tests := []struct {
		isbn string
		want bool
	}{
		{"978-3-16-148410-0", true},
		{"9783161484100", true},
		{"978 3 16 148410 0", true},
		{"0-306-40615-2", true},
		{"123456789X", true},
		{"123456789x", false},
		{"12345678X9", false},
		{"abc", false},
		{"", false},
		{"123456789", false},
		{"12345678901", false},
		{"12345678901234", false},
		{"978-3-16-148410-X", false},
	}

	for _, tt := range tests {
		t.Run(tt.isbn, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidISBN(tt.isbn))
		})
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2023-02-28", true},
		{"2024-02-29", true},
		{"1899-12-31", true},
		{"2023-02-30", false},
		{"2023-02-29", false},
		{"2023-13-01", false},
		{"2023-00-10", false},
		{"2023-2-01", false},
		{"23-02-01", false},
		{"2023/02/01", false},
		{" 2023-02-01", false},
		{"2023-02-01T00:00:00Z", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.date), func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDate(tt.date))
		})
	}
}

func TestRequired(t *testing.T) {
	assert.NoError(t, Required("nombre", "Borges", "msg"))

	for _, blank := range []string{"", " ", "\t\n", "   "} {
		err := Required("nombre", blank, "El nombre del autor es requerido")
		require.Error(t, err)
		assert.Equal(t, "El nombre del autor es requerido", err.Error())

		var ve *Error
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "nombre", ve.Field)
	}
}

func TestRequiredIfSet(t *testing.T) {
	blank := "  "
	value := "x"

	assert.NoError(t, RequiredIfSet("f", nil, "msg"))
	assert.NoError(t, RequiredIfSet("f", &value, "msg"))
	assert.EqualError(t, RequiredIfSet("f", &blank, "msg"), "msg")
}

func TestIDs(t *testing.T) {
	assert.EqualError(t, IDs("authorIds", nil, true, "empty", "blank"), "empty")
	assert.EqualError(t, IDs("authorIds", []string{}, true, "empty", "blank"), "empty")
	assert.EqualError(t, IDs("authorIds", []string{"a", " "}, true, "empty", "blank"), "blank")
	assert.NoError(t, IDs("authorIds", []string{"a", "b"}, true, "empty", "blank"))
	assert.NoError(t, IDs("tagIds", nil, false, "empty", "blank"))
	assert.EqualError(t, IDs("tagIds", []string{""}, false, "empty", "blank"), "blank")
}

func TestIntRangeAndOneOf(t *testing.T) {
	assert.NoError(t, IntRange("pageCount", 1, 1, 10, "range"))
	assert.NoError(t, IntRange("pageCount", 10, 1, 10, "range"))
	assert.EqualError(t, IntRange("pageCount", 0, 1, 10, "range"), "range")
	assert.EqualError(t, IntRange("pageCount", 11, 1, 10, "range"), "range")

	assert.NoError(t, OneOf("language", entities.LanguageSpanish, entities.Languages, "lang"))
	assert.EqualError(t, OneOf("language", entities.Language("xx"), entities.Languages, "lang"), "lang")
}

func TestPagination(t *testing.T) {
	p, err := Pagination(entities.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p, err = Pagination(entities.ListParams{Limit: 25, Offset: 50})
	require.NoError(t, err)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset)

	_, err = Pagination(entities.ListParams{Limit: 101})
	assert.EqualError(t, err, MsgLimitRange)

	_, err = Pagination(entities.ListParams{Limit: -1})
	assert.EqualError(t, err, MsgLimitRange)

	_, err = Pagination(entities.ListParams{Offset: -5})
	assert.EqualError(t, err, MsgNegativeOffset)
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("lector@booknet.es"))
	assert.False(t, IsValidEmail("lector@"))
	assert.False(t, IsValidEmail("lector booknet.es"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://covers.booknet.es/1.jpg"))
	assert.False(t, IsValidURL("not a url"))
	assert.False(t, IsValidURL(""))
}

func TestIsValidationError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New("f", "m"))
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(errors.New("m")))
}
