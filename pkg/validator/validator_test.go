package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	PartID string `validate:"required,max=8"`
	Limit  int    `validate:"gte=0,lte=100"`
	Engine string `validate:"omitempty,oneof=elasticsearch memory"`
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(testStruct{PartID: "P1", Limit: 10, Engine: "memory"}))
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(testStruct{Limit: 1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["PartID"])
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(testStruct{PartID: "way-too-long", Limit: 101, Engine: "solr"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "must be at most 8 characters", fields["PartID"])
	assert.Equal(t, "must be less than or equal to 100", fields["Limit"])
	assert.Equal(t, "must be one of: elasticsearch memory", fields["Engine"])
	assert.Equal(t,
		"field 'Engine' must be one of: elasticsearch memory; field 'Limit' must be less than or equal to 100; field 'PartID' must be at most 8 characters",
		err.Error())
}

func TestField_UsesGivenName(t *testing.T) {
	err := Field("productID", "", "required")

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, map[string]string{"productID": "is required"}, valErr.Fields())
}

func TestField_Valid(t *testing.T) {
	assert.NoError(t, Field("productID", "P1", "required,max=64,printascii"))
}

func TestField_PrintASCII(t *testing.T) {
	err := Field("productID", "P\x01", "printascii")
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "must contain printable ASCII characters only", valErr.Fields()["productID"])
}

func TestFields_ReturnsCopy(t *testing.T) {
	err := Field("q", "", "required")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	valErr.Fields()["q"] = "changed"
	assert.Equal(t, "is required", valErr.Fields()["q"])
}
