package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackPoster(t *testing.T) {
	assert.Equal(t, knownPosters["inception"], FallbackPoster("  Inception "))
	assert.Contains(t, FallbackPoster("Lost in Space"), "text=Sci-Fi")
	assert.Contains(t, FallbackPoster("Night of the Living Dead"), "text=Horror")

	generic := FallbackPoster("Untitled Project 42")
	assert.Equal(t, generic, FallbackPoster("untitled project 42"), "stable for the same title")
	assert.True(t, strings.HasPrefix(generic, "https://placehold.co/"))
	assert.Contains(t, genericPosters, generic)
}
