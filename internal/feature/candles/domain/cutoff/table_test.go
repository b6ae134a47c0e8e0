package cutoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finfetcher/internal/feature/candles/domain"
)

func TestBuiltin_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		assetType AssetType
		tickerTZ  string
		wantTZ    string
		wantClose TimeOfDay
	}{
		{"equity new york", Equity, "America/New_York", "America/New_York", TimeOfDay{16, 20}},
		{"equity tokyo", Equity, "Asia/Tokyo", "Asia/Tokyo", TimeOfDay{15, 20}},
		{"equity london", Equity, "Europe/London", "Europe/London", TimeOfDay{16, 50}},
		{"equity kolkata", Equity, "Asia/Kolkata", "Asia/Kolkata", TimeOfDay{15, 50}},
		{"equity unlisted timezone uses default", Equity, "America/Sao_Paulo", "America/Sao_Paulo", TimeOfDay{18, 0}},
		{"etf shares equity table", ETF, "Europe/Paris", "Europe/Paris", TimeOfDay{17, 50}},
		{"index shares equity table", Index, "Asia/Singapore", "Asia/Singapore", TimeOfDay{17, 20}},
		{"future forced to new york", Future, "Europe/London", "America/New_York", TimeOfDay{17, 20}},
		{"currency forced to new york", Currency, "Asia/Tokyo", "America/New_York", TimeOfDay{17, 20}},
		{"crypto forced to utc", Cryptocurrency, "America/New_York", "UTC", TimeOfDay{23, 59}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := Builtin.Lookup(tt.assetType)
			require.True(t, ok)

			tz, close := rule.Resolve(tt.tickerTZ)
			assert.Equal(t, tt.wantTZ, tz)
			assert.Equal(t, tt.wantClose, close)
		})
	}
}

func TestBuiltin_AssetTypes(t *testing.T) {
	assert.Equal(t,
		[]AssetType{Cryptocurrency, Currency, ETF, Equity, Future, Index},
		Builtin.AssetTypes(),
	)
}

func TestTable_MergeLeavesBaseUntouched(t *testing.T) {
	tokyo := TimeOfDay{Hour: 15, Minute: 30}
	before := Builtin.Clone()

	merged, err := Builtin.Merge(Overrides{
		"EQUITY": {Timezones: map[string]TimeOfDay{"Asia/Tokyo": tokyo}},
	})
	require.NoError(t, err)

	rule, _ := merged.Lookup(Equity)
	_, close := rule.Resolve("Asia/Tokyo")
	assert.Equal(t, tokyo, close)

	assert.Equal(t, before, Builtin)
	rule, _ = Builtin.Lookup(Equity)
	_, close = rule.Resolve("Asia/Tokyo")
	assert.Equal(t, TimeOfDay{15, 20}, close)
}

func TestTable_MergeSemantics(t *testing.T) {
	ptr := func(s string) *string { return &s }
	tod := func(h, m int) *TimeOfDay { return &TimeOfDay{Hour: h, Minute: m} }

	tests := []struct {
		name      string
		overrides Overrides
		assetType AssetType
		tickerTZ  string
		wantTZ    string
		wantClose TimeOfDay
	}{
		{
			name:      "timezones replaces whole table",
			overrides: Overrides{"EQUITY": {Timezones: map[string]TimeOfDay{"Asia/Tokyo": {15, 30}}}},
			assetType: Equity, tickerTZ: "America/New_York",
			wantTZ: "America/New_York", wantClose: TimeOfDay{18, 0},
		},
		{
			name:      "default replaced table kept",
			overrides: Overrides{"EQUITY": {Default: tod(19, 0)}},
			assetType: Equity, tickerTZ: "Asia/Tokyo",
			wantTZ: "Asia/Tokyo", wantClose: TimeOfDay{15, 20},
		},
		{
			name:      "lower-case key targets builtin",
			overrides: Overrides{"equity": {Default: tod(19, 0)}},
			assetType: Equity, tickerTZ: "America/Sao_Paulo",
			wantTZ: "America/Sao_Paulo", wantClose: TimeOfDay{19, 0},
		},
		{
			name:      "force_tz turns table rule into forced rule",
			overrides: Overrides{"INDEX": {ForceTimezone: ptr("Europe/London")}},
			assetType: Index, tickerTZ: "Asia/Tokyo",
			wantTZ: "Europe/London", wantClose: TimeOfDay{18, 0},
		},
		{
			name:      "forced rule close replaced",
			overrides: Overrides{"CRYPTOCURRENCY": {Default: tod(0, 5)}},
			assetType: Cryptocurrency, tickerTZ: "Asia/Tokyo",
			wantTZ: "UTC", wantClose: TimeOfDay{0, 5},
		},
		{
			name: "forced rule ignores timezones",
			overrides: Overrides{"FUTURE": {
				ForceTimezone: ptr("Europe/London"),
				Timezones:     map[string]TimeOfDay{"Europe/London": {12, 0}},
			}},
			assetType: Future, tickerTZ: "Europe/London",
			wantTZ: "Europe/London", wantClose: TimeOfDay{17, 20},
		},
		{
			name:      "new asset type with default",
			overrides: Overrides{"MUTUALFUND": {Default: tod(20, 0)}},
			assetType: "MUTUALFUND", tickerTZ: "America/New_York",
			wantTZ: "America/New_York", wantClose: TimeOfDay{20, 0},
		},
		{
			name:      "new asset type without default uses equity default",
			overrides: Overrides{"MUTUALFUND": {Timezones: map[string]TimeOfDay{"UTC": {12, 0}}}},
			assetType: "MUTUALFUND", tickerTZ: "America/New_York",
			wantTZ: "America/New_York", wantClose: TimeOfDay{18, 0},
		},
		{
			name:      "new asset type timezones only",
			overrides: Overrides{"MUTUALFUND": {Timezones: map[string]TimeOfDay{"UTC": {12, 0}}}},
			assetType: "MUTUALFUND", tickerTZ: "UTC",
			wantTZ: "UTC", wantClose: TimeOfDay{12, 0},
		},
		{
			name:      "new forced asset type",
			overrides: Overrides{"Option": {ForceTimezone: ptr("America/Chicago"), Default: tod(15, 15)}},
			assetType: "OPTION", tickerTZ: "America/New_York",
			wantTZ: "America/Chicago", wantClose: TimeOfDay{15, 15},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			merged, err := Builtin.Merge(tt.overrides)
			require.NoError(t, err)

			rule, ok := merged.Lookup(tt.assetType)
			require.True(t, ok)
			tz, close := rule.Resolve(tt.tickerTZ)
			assert.Equal(t, tt.wantTZ, tz)
			assert.Equal(t, tt.wantClose, close)
		})
	}
}

func TestTable_MergeAppliesToSharedRules(t *testing.T) {
	tod := func(h, m int) *TimeOfDay { return &TimeOfDay{Hour: h, Minute: m} }

	tests := []struct {
		name      string
		overrides Overrides
		wantClose map[AssetType]TimeOfDay
	}{
		{
			name:      "equity default reaches etf and index",
			overrides: Overrides{"EQUITY": {Default: tod(11, 0)}},
			wantClose: map[AssetType]TimeOfDay{
				Equity: {11, 0}, ETF: {11, 0}, Index: {11, 0},
				Future: {17, 20}, Currency: {17, 20}, Cryptocurrency: {23, 59},
			},
		},
		{
			name:      "etf default reaches equity",
			overrides: Overrides{"etf": {Default: tod(12, 30)}},
			wantClose: map[AssetType]TimeOfDay{Equity: {12, 30}, ETF: {12, 30}, Index: {12, 30}},
		},
		{
			name:      "currency close reaches future",
			overrides: Overrides{"CURRENCY": {Default: tod(16, 0)}},
			wantClose: map[AssetType]TimeOfDay{Future: {16, 0}, Currency: {16, 0}, Equity: {18, 0}},
		},
		{
			name: "later key in a group wins",
			overrides: Overrides{
				"EQUITY": {Default: tod(11, 0)},
				"INDEX":  {Default: tod(13, 0)},
			},
			wantClose: map[AssetType]TimeOfDay{Equity: {13, 0}, ETF: {13, 0}, Index: {13, 0}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			merged, err := Builtin.Merge(tt.overrides)
			require.NoError(t, err)

			for assetType, want := range tt.wantClose {
				rule, ok := merged.Lookup(assetType)
				require.True(t, ok)
				_, close := rule.Resolve("America/Sao_Paulo")
				assert.Equal(t, want, close, assetType)
			}
		})
	}

	rule, _ := Builtin.Lookup(ETF)
	_, close := rule.Resolve("America/Sao_Paulo")
	assert.Equal(t, TimeOfDay{18, 0}, close)
}

func TestTable_SharedWith(t *testing.T) {
	assert.Equal(t, []AssetType{ETF, Equity, Index}, Builtin.SharedWith(ETF))
	assert.Equal(t, []AssetType{Currency, Future}, Builtin.SharedWith(Future))
	assert.Equal(t, []AssetType{Cryptocurrency}, Builtin.SharedWith(Cryptocurrency))
	assert.Equal(t, []AssetType{"MUTUALFUND"}, Builtin.SharedWith("MUTUALFUND"))

	merged, err := Builtin.Merge(Overrides{"MUTUALFUND": {}})
	require.NoError(t, err)
	assert.Equal(t, []AssetType{ETF, Equity, Index}, merged.SharedWith(Index))
	assert.Equal(t, 7, merged.Len())
}

func TestTable_MergeEmptyOverridesIsIdentity(t *testing.T) {
	merged, err := Builtin.Merge(nil)
	require.NoError(t, err)
	assert.Equal(t, Builtin, merged)
}

func TestOverrides_Validate(t *testing.T) {
	empty := ""
	tests := []struct {
		name      string
		overrides Overrides
	}{
		{"hour too large", Overrides{"EQUITY": {Default: &TimeOfDay{Hour: 24}}}},
		{"negative minute", Overrides{"EQUITY": {Timezones: map[string]TimeOfDay{"Asia/Tokyo": {15, -1}}}}},
		{"minute too large", Overrides{"ETF": {Default: &TimeOfDay{Hour: 10, Minute: 60}}}},
		{"empty force_tz", Overrides{"FUTURE": {ForceTimezone: &empty}}},
		{"empty key", Overrides{" ": {Default: &TimeOfDay{}}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := Builtin.Merge(tt.overrides)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestRuleAccessorsReturnCopies(t *testing.T) {
	rule, _ := Builtin.Lookup(Equity)
	table := rule.(TimezoneTableRule)

	tzs := table.Timezones()
	tzs["Asia/Tokyo"] = TimeOfDay{0, 0}

	_, close := table.Resolve("Asia/Tokyo")
	assert.Equal(t, TimeOfDay{15, 20}, close)
}
