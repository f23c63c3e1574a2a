package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "organic-apples", Slugify("Organic Apples"))
	assert.Equal(t, "ground-coffee-250g", Slugify("  Ground Coffee (250g)! "))
	assert.Equal(t, "caf-crme", Slugify("Café Crème"))
	assert.Equal(t, "a-b-c", Slugify("a---b___c"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestSlugWithSuffix(t *testing.T) {
	assert.Equal(t, "organic-apples", SlugWithSuffix("organic-apples", 1))
	assert.Equal(t, "organic-apples-1", SlugWithSuffix("organic-apples", 2))
	assert.Equal(t, "organic-apples-4", SlugWithSuffix("organic-apples", 5))
}
