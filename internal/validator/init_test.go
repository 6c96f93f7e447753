package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Secret string `env:"SAMPLE_SECRET,required" validate:"required,min=4"`
	Plain  string `validate:"required"`
}

func TestGetValidator_UsesEnvNames(t *testing.T) {
	err := GetValidator().Struct(sample{})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"SAMPLE_SECRET", "Plain"}, fields)
}

func TestGetValidator_Valid(t *testing.T) {
	assert.NoError(t, GetValidator().Struct(sample{Secret: "abcd", Plain: "x"}))
}
