package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name    string `json:"customerName"    validate:"min=2,max=100"`
	Email   string `json:"customerEmail"   validate:"required,email,max=120"`
	Phone   string `json:"customerPhone"   validate:"required,phone"`
	Address string `json:"customerAddress" validate:"min=10,max=500"`
}

func valid() contact {
	return contact{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "+91 98765 43210",
		Address: "12 Residency Road, Bengaluru",
	}
}

func fieldNames(err error) []string {
	var verr *Error
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}

	return names
}

func TestStructValid(t *testing.T) {
	require.NoError(t, New().Struct(valid()))
}

func TestStructReportsEveryFieldByJSONName(t *testing.T) {
	err := New().Struct(contact{})

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.ElementsMatch(t,
		[]string{"customerName", "customerEmail", "customerPhone", "customerAddress"},
		fieldNames(err))
}

func TestPhoneRule(t *testing.T) {
	tests := []struct {
		phone string
		ok    bool
	}{
		{"+1 555-123-4567", true},
		{"5551234567", true},
		{"+44 20 7946 0958", true},
		{"555-1234", false},
		{"phone: 5551234567", false},
		{"+1 (555) 123-4567", false},
		{"1234567890123456", false},
	}

	v := New()
	for _, tt := range tests {
		c := valid()
		c.Phone = tt.phone

		err := v.Struct(c)
		if tt.ok {
			assert.NoError(t, err, tt.phone)

			continue
		}
		assert.Equal(t, []string{"customerPhone"}, fieldNames(err), tt.phone)
	}
}

func TestLengthsCountCharacters(t *testing.T) {
	c := valid()
	c.Name = strings.Repeat("é", 100)

	require.NoError(t, New().Struct(c))

	c.Name = strings.Repeat("é", 101)
	err := New().Struct(c)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "max", verr.Fields[0].Rule)
	assert.Equal(t, "cannot exceed 100 characters", verr.Fields[0].Message)
}

func TestEmailLengthCap(t *testing.T) {
	c := valid()
	c.Email = strings.Repeat("a", 61) + "@" + strings.Repeat("b", 55) + ".com"

	err := New().Struct(c)

	assert.Equal(t, []string{"customerEmail"}, fieldNames(err))
}

func TestMessages(t *testing.T) {
	c := valid()
	c.Name = "A"
	c.Email = "not-an-email"

	var verr *Error
	require.ErrorAs(t, New().Struct(c), &verr)

	messages := map[string]string{}
	for _, f := range verr.Fields {
		messages[f.Field] = f.Message
	}
	assert.Equal(t, "must be at least 2 characters", messages["customerName"])
	assert.Equal(t, "Invalid email address", messages["customerEmail"])
}

func TestField(t *testing.T) {
	err := Field("paymentMethod", "oneof", "must be one of: cash card")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "invalid input: paymentMethod: must be one of: cash card", err.Error())
}
