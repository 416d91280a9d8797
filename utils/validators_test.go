package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("mia@example.com"))
	assert.True(t, IsValidEmail("mia.lee+glow@beauty-app.co"))
	assert.False(t, IsValidEmail("mia@"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("@example.com"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("Glow123"))
	assert.True(t, IsValidPassword("glow-123"))
	assert.False(t, IsValidPassword("short"))
	assert.False(t, IsValidPassword("alllowercase"))
	assert.False(t, IsValidPassword("123456"))
}

func TestIsValidRoutineTime(t *testing.T) {
	assert.True(t, IsValidRoutineTime("under-15"))
	assert.True(t, IsValidRoutineTime("60-plus"))
	assert.False(t, IsValidRoutineTime("90"))
	assert.False(t, IsValidRoutineTime(""))
}
