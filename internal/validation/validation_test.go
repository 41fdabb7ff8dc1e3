package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"", true},
		{"+123456789", true},
		{"+15551234567", true},
		{"123-456-7890", true},
		{"12345", false},
		{"+12", false},            // меньше 4 цифр после кода
		{"1234-456-7890", false},  // четыре цифры в первой группе
		{"123-456-789", false},    // три цифры в последней группе
		{"+1 234 567 890", false}, // разделители не допускаются
		{"abc-def-ghij", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.valid, Phone(tc.phone), "phone %q", tc.phone)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "john@example.com", NormalizeEmail("  John@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "John Doe", NormalizeName("  John Doe "))
}

func TestQuantity(t *testing.T) {
	assert.True(t, Quantity(1))
	assert.True(t, Quantity(100))
	assert.False(t, Quantity(0))
	assert.False(t, Quantity(-5))
}
