package workflow

import (
	"strings"
)

// Deep link type constants
const (
	DeepLinkTypeProduct  = "product"
	DeepLinkTypeCategory = "category"
)

// ParseDeepLink parses a deep link code from a /start command.
// Format: "type_code" (e.g., "product_42")
// The code parameter is up to 64 base64url characters from t.me/botname?start=CODE
func ParseDeepLink(startParam string) *DeepLinkData {
	if startParam == "" {
		return nil
	}

	startParam = strings.TrimSpace(startParam)

	// Split on first underscore
	parts := strings.SplitN(startParam, "_", 2)
	if len(parts) < 2 {
		// No underscore, treat entire param as type with empty code
		return &DeepLinkData{
			Type: startParam,
			Code: "",
		}
	}

	return &DeepLinkData{
		Type: parts[0],
		Code: parts[1],
	}
}

// ExtractStartParam extracts the parameter from a /start command message.
// Returns empty string if no parameter present.
func ExtractStartParam(messageText string) string {
	// Message format: "/start CODE" or just "/start"
	messageText = strings.TrimSpace(messageText)

	if !strings.HasPrefix(messageText, "/start") {
		return ""
	}

	rest := strings.TrimPrefix(messageText, "/start")
	rest = strings.TrimSpace(rest)

	return rest
}

// IsProductDeepLink checks if the deep link points at a product.
func (d *DeepLinkData) IsProductDeepLink() bool {
	return d != nil && d.Type == DeepLinkTypeProduct
}

// IsCategoryDeepLink checks if the deep link points at a category.
func (d *DeepLinkData) IsCategoryDeepLink() bool {
	return d != nil && d.Type == DeepLinkTypeCategory
}

// HasCode checks if the deep link has a code.
func (d *DeepLinkData) HasCode() bool {
	return d != nil && d.Code != ""
}

// IsEmpty checks if the deep link data is empty or nil.
func (d *DeepLinkData) IsEmpty() bool {
	return d == nil || (d.Type == "" && d.Code == "")
}

// FullCode returns the full deep link code (type_code).
func (d *DeepLinkData) FullCode() string {
	if d == nil {
		return ""
	}
	if d.Code == "" {
		return d.Type
	}
	return d.Type + "_" + d.Code
}
