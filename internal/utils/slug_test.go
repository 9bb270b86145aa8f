package utils

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"schools", true},
		{"pbp-schools", true},
		{"eprs-pb-2025", true},
		{"a", true},
		{"", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"Upper", false},
		{"with space", false},
		{"under_score", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSlug(tt.slug))
		})
	}
}

func TestRegisterValidators_SlugRule(t *testing.T) {
	require.NoError(t, RegisterValidators())

	type body struct {
		Slug string `binding:"required,slug"`
	}

	assert.NoError(t, binding.Validator.ValidateStruct(&body{Slug: "my-project"}))
	assert.Error(t, binding.Validator.ValidateStruct(&body{Slug: "My Project"}))
}
