package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "type": "object",
  "required": ["name", "age"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "integer", "minimum": 0}
  }
}`

func TestSchema_ValidateJSON(t *testing.T) {
	s := MustCompile(personSchema)

	ok := s.ValidateJSON([]byte(`{"name":"Ana","age":30}`))
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Errors)

	bad := s.ValidateJSON([]byte(`{"name":"","age":-1}`))
	assert.False(t, bad.Valid)
	assert.True(t, bad.HasErrors("name"))
	assert.True(t, bad.HasErrors("age"))
	assert.Len(t, bad.GetErrorMessages(), 2)

	missing := s.ValidateJSON([]byte(`{"name":"Ana"}`))
	assert.False(t, missing.Valid)
	require.Len(t, missing.Errors, 1)
	assert.Equal(t, "REQUIRED", missing.Errors[0].Code)
}

func TestSchema_MalformedJSON(t *testing.T) {
	res := MustCompile(personSchema).ValidateJSON([]byte(`{"name":`))
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "INVALID_JSON", res.Errors[0].Code)
}

func TestSchema_ValidateInput(t *testing.T) {
	res := MustCompile(personSchema).ValidateInput(map[string]interface{}{"name": "Ana", "age": 3})
	assert.True(t, res.Valid)
}

func TestCompile_BadSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"Ana", "Jean-Luc", "O'Brien", "José María", "  Bo  "} {
		assert.True(t, ValidateName(name), name)
	}
	for _, name := range []string{"A", "R2D2", "<script>", "Ana!", strings.Repeat("a", 101)} {
		assert.False(t, ValidateName(name), name)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ana@example.com"))
	assert.False(t, ValidateEmail("ana@example"))
	assert.False(t, ValidateEmail("ana example@x.co"))
	assert.False(t, ValidateEmail("@x.co"))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("(305) 555-0100"))
	assert.True(t, ValidatePhone("+1 305 555 0100"))
	assert.False(t, ValidatePhone("555-0100"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Ana", Sanitize("  Ana \n"))
	assert.Len(t, []rune(Sanitize(strings.Repeat("é", 600))), MaxFieldLength)
	assert.Equal(t, "ana@example.com", SanitizeEmail(" Ana@Example.COM "))
}
