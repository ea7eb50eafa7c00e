package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Locale string `mapstructure:"locale" validate:"locale"`
	Level  string `mapstructure:"level" validate:"loglevel"`
	Port   int    `mapstructure:"port" validate:"gte=1"`
}

func TestStruct(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(sample{Locale: "zh-CN", Level: "debug", Port: 80}))

	err := v.Struct(sample{Locale: "not a tag!", Level: "loud", Port: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample.locale must be a BCP 47 language tag")
	assert.Contains(t, err.Error(), "sample.level must be one of")
	assert.Contains(t, err.Error(), "sample.port must be greater than or equal to 1")
}

func TestVar(t *testing.T) {
	v := New()
	assert.NoError(t, v.Var("en", "locale"))
	assert.Error(t, v.Var("@@", "locale"))
}
