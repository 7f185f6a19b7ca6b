package market

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewID membentuk id pendek dengan prefix, misal ORD-3FA2B1, mengikuti
// format id yang sudah terlanjur ada di data lama.
func NewID(prefix string) string {
	u := uuid.New()
	return prefix + "-" + strings.ToUpper(hex.EncodeToString(u[:3]))
}

const (
	PrefixOrder   = "ORD"
	PrefixVendor  = "VEND"
	PrefixProduct = "PROD"
)
