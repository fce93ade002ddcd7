package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeepLink(t *testing.T) {
	dl := ParseDeepLink("product_42")
	require.NotNil(t, dl)
	assert.True(t, dl.IsProductDeepLink())
	assert.Equal(t, "42", dl.Code)
	assert.Equal(t, "product_42", dl.FullCode())

	dl = ParseDeepLink("category_7")
	require.NotNil(t, dl)
	assert.True(t, dl.IsCategoryDeepLink())

	dl = ParseDeepLink("promo")
	require.NotNil(t, dl)
	assert.Equal(t, "promo", dl.Type)
	assert.False(t, dl.HasCode())
	assert.Equal(t, "promo", dl.FullCode())

	assert.Nil(t, ParseDeepLink(""))
}

func TestParseDeepLinkKeepsUnderscoresInCode(t *testing.T) {
	dl := ParseDeepLink("product_42_extra")
	require.NotNil(t, dl)
	assert.Equal(t, "42_extra", dl.Code, "only the first underscore splits")
}

func TestExtractStartParam(t *testing.T) {
	assert.Equal(t, "product_42", ExtractStartParam("/start product_42"))
	assert.Empty(t, ExtractStartParam("/start"))
	assert.Empty(t, ExtractStartParam("hello"))
	assert.Equal(t, "x", ExtractStartParam("  /start   x  "))
}

func TestDeepLinkIsEmpty(t *testing.T) {
	var dl *DeepLinkData
	assert.True(t, dl.IsEmpty())
	assert.False(t, dl.HasCode())
	assert.Empty(t, dl.FullCode())

	assert.True(t, (&DeepLinkData{}).IsEmpty())
	assert.False(t, (&DeepLinkData{Type: "product"}).IsEmpty())
}
