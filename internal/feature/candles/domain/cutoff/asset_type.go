// Package cutoff maps asset types and exchange timezones to the clock time after
// which a daily bar is considered final.
//
// The builtin table is process-wide and read-only. Callers that need custom
// cutoffs merge an Overrides value into it and keep the resulting Table for
// their own use.
package cutoff

import "strings"

// AssetType is the instrument category reported by the market data provider.
type AssetType string

// Asset types with builtin cutoff rules.
const (
	Equity         AssetType = "EQUITY"
	ETF            AssetType = "ETF"
	Index          AssetType = "INDEX"
	Future         AssetType = "FUTURE"
	Currency       AssetType = "CURRENCY"
	Cryptocurrency AssetType = "CRYPTOCURRENCY"
)

// ParseAssetType normalises a provider quote type ("equity", " ETF ") to an AssetType.
// Unrecognised values are kept as-is so that custom rules can target them.
func ParseAssetType(s string) AssetType {
	return AssetType(strings.ToUpper(strings.TrimSpace(s)))
}

func (a AssetType) String() string { return string(a) }
