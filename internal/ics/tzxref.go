package ics

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TZXRef maps a Microsoft timezone token to a POSIX (IANA) zone name.
type TZXRef struct {
	MS    string `yaml:"ms" json:"ms"`
	Posix string `yaml:"posix" json:"posix"`
}

// Ms2Posix is the compiled-in cross-reference. Lookup is a case-insensitive
// substring search in table order, so a token that contains another token
// must come before it (e.g. "AUS Eastern Standard Time:" before
// "US Eastern Standard Time:" before "Eastern Standard Time:").
//
// Outlook emits TZID either as a bare Windows identifier
// (TZID=Central Standard Time:...), as a quoted identifier, or as a quoted
// display name (TZID="(UTC-06:00) Central Time (US & Canada)":...).
// Bare identifiers carry their trailing ':' to keep them unique.
var Ms2Posix = []TZXRef{
	// North America
	{MS: `"(UTC-06:00) Central Time (US & Canada)"`, Posix: "America/Chicago"},
	{MS: `"(UTC-06:00) Saskatchewan"`, Posix: "America/Regina"},
	{MS: `"(UTC-06:00) Guadalajara, Mexico City, Monterrey"`, Posix: "America/Mexico_City"},
	{MS: `"(UTC-05:00) Eastern Time (US & Canada)"`, Posix: "America/New_York"},
	{MS: `"(UTC-05:00) Indiana (East)"`, Posix: "America/Indiana/Indianapolis"},
	{MS: `"(UTC-07:00) Mountain Time (US & Canada)"`, Posix: "America/Denver"},
	{MS: `"(UTC-07:00) Arizona"`, Posix: "America/Phoenix"},
	{MS: `"(UTC-08:00) Pacific Time (US & Canada)"`, Posix: "America/Los_Angeles"},
	{MS: `"(UTC-09:00) Alaska"`, Posix: "America/Anchorage"},
	{MS: `"(UTC-10:00) Hawaii"`, Posix: "Pacific/Honolulu"},
	{MS: `"(UTC-04:00) Atlantic Time (Canada)"`, Posix: "America/Halifax"},
	{MS: `"(UTC-03:30) Newfoundland"`, Posix: "America/St_Johns"},

	{MS: "Canada Central Standard Time:", Posix: "America/Regina"},
	{MS: `"Canada Central Standard Time"`, Posix: "America/Regina"},
	{MS: "AUS Central Standard Time:", Posix: "Australia/Darwin"},
	{MS: `"AUS Central Standard Time"`, Posix: "Australia/Darwin"},
	{MS: "Central Standard Time (Mexico):", Posix: "America/Mexico_City"},
	{MS: `"Central Standard Time (Mexico)"`, Posix: "America/Mexico_City"},
	{MS: "Central Standard Time:", Posix: "America/Chicago"},
	{MS: `"Central Standard Time"`, Posix: "America/Chicago"},
	{MS: "AUS Eastern Standard Time:", Posix: "Australia/Sydney"},
	{MS: `"AUS Eastern Standard Time"`, Posix: "Australia/Sydney"},
	{MS: "US Eastern Standard Time:", Posix: "America/Indiana/Indianapolis"},
	{MS: `"US Eastern Standard Time"`, Posix: "America/Indiana/Indianapolis"},
	{MS: "Eastern Standard Time:", Posix: "America/New_York"},
	{MS: `"Eastern Standard Time"`, Posix: "America/New_York"},
	{MS: "US Mountain Standard Time:", Posix: "America/Phoenix"},
	{MS: `"US Mountain Standard Time"`, Posix: "America/Phoenix"},
	{MS: "Mountain Standard Time:", Posix: "America/Denver"},
	{MS: `"Mountain Standard Time"`, Posix: "America/Denver"},
	{MS: "SA Pacific Standard Time:", Posix: "America/Bogota"},
	{MS: `"SA Pacific Standard Time"`, Posix: "America/Bogota"},
	{MS: "Pacific Standard Time:", Posix: "America/Los_Angeles"},
	{MS: `"Pacific Standard Time"`, Posix: "America/Los_Angeles"},
	{MS: "Alaskan Standard Time:", Posix: "America/Anchorage"},
	{MS: `"Alaskan Standard Time"`, Posix: "America/Anchorage"},
	{MS: "Hawaiian Standard Time:", Posix: "Pacific/Honolulu"},
	{MS: `"Hawaiian Standard Time"`, Posix: "Pacific/Honolulu"},
	{MS: "Atlantic Standard Time:", Posix: "America/Halifax"},
	{MS: `"Atlantic Standard Time"`, Posix: "America/Halifax"},
	{MS: "Newfoundland Standard Time:", Posix: "America/St_Johns"},
	{MS: `"Newfoundland Standard Time"`, Posix: "America/St_Johns"},

	// Europe / Africa
	{MS: `"(UTC+00:00) Dublin, Edinburgh, Lisbon, London"`, Posix: "Europe/London"},
	{MS: `"(UTC) Dublin, Edinburgh, Lisbon, London"`, Posix: "Europe/London"},
	{MS: `"(UTC+01:00) Amsterdam, Berlin, Bern, Rome, Stockholm, Vienna"`, Posix: "Europe/Berlin"},
	{MS: `"(UTC+01:00) Brussels, Copenhagen, Madrid, Paris"`, Posix: "Europe/Paris"},
	{MS: `"(UTC+02:00) Helsinki, Kyiv, Riga, Sofia, Tallinn, Vilnius"`, Posix: "Europe/Kiev"},
	{MS: "GMT Standard Time:", Posix: "Europe/London"},
	{MS: `"GMT Standard Time"`, Posix: "Europe/London"},
	{MS: "Greenwich Standard Time:", Posix: "Atlantic/Reykjavik"},
	{MS: `"Greenwich Standard Time"`, Posix: "Atlantic/Reykjavik"},
	{MS: "W. Europe Standard Time:", Posix: "Europe/Berlin"},
	{MS: `"W. Europe Standard Time"`, Posix: "Europe/Berlin"},
	{MS: "Romance Standard Time:", Posix: "Europe/Paris"},
	{MS: `"Romance Standard Time"`, Posix: "Europe/Paris"},
	{MS: "Central Europe Standard Time:", Posix: "Europe/Budapest"},
	{MS: `"Central Europe Standard Time"`, Posix: "Europe/Budapest"},
	{MS: "Central European Standard Time:", Posix: "Europe/Warsaw"},
	{MS: `"Central European Standard Time"`, Posix: "Europe/Warsaw"},
	{MS: "FLE Standard Time:", Posix: "Europe/Kiev"},
	{MS: `"FLE Standard Time"`, Posix: "Europe/Kiev"},
	{MS: "GTB Standard Time:", Posix: "Europe/Bucharest"},
	{MS: `"GTB Standard Time"`, Posix: "Europe/Bucharest"},
	{MS: "E. Europe Standard Time:", Posix: "Europe/Chisinau"},
	{MS: `"E. Europe Standard Time"`, Posix: "Europe/Chisinau"},
	{MS: "Russian Standard Time:", Posix: "Europe/Moscow"},
	{MS: `"Russian Standard Time"`, Posix: "Europe/Moscow"},
	{MS: "South Africa Standard Time:", Posix: "Africa/Johannesburg"},
	{MS: `"South Africa Standard Time"`, Posix: "Africa/Johannesburg"},

	// Asia / Pacific
	{MS: `"(UTC+05:30) Chennai, Kolkata, Mumbai, New Delhi"`, Posix: "Asia/Kolkata"},
	{MS: `"(UTC+08:00) Beijing, Chongqing, Hong Kong, Urumqi"`, Posix: "Asia/Shanghai"},
	{MS: `"(UTC+09:00) Osaka, Sapporo, Tokyo"`, Posix: "Asia/Tokyo"},
	{MS: `"(UTC+09:00) Seoul"`, Posix: "Asia/Seoul"},
	{MS: `"(UTC+10:00) Canberra, Melbourne, Sydney"`, Posix: "Australia/Sydney"},
	{MS: "India Standard Time:", Posix: "Asia/Kolkata"},
	{MS: `"India Standard Time"`, Posix: "Asia/Kolkata"},
	{MS: "China Standard Time:", Posix: "Asia/Shanghai"},
	{MS: `"China Standard Time"`, Posix: "Asia/Shanghai"},
	{MS: "Singapore Standard Time:", Posix: "Asia/Singapore"},
	{MS: `"Singapore Standard Time"`, Posix: "Asia/Singapore"},
	{MS: "Tokyo Standard Time:", Posix: "Asia/Tokyo"},
	{MS: `"Tokyo Standard Time"`, Posix: "Asia/Tokyo"},
	{MS: "Korea Standard Time:", Posix: "Asia/Seoul"},
	{MS: `"Korea Standard Time"`, Posix: "Asia/Seoul"},
	{MS: "Arabian Standard Time:", Posix: "Asia/Dubai"},
	{MS: `"Arabian Standard Time"`, Posix: "Asia/Dubai"},
	{MS: "Israel Standard Time:", Posix: "Asia/Jerusalem"},
	{MS: `"Israel Standard Time"`, Posix: "Asia/Jerusalem"},
	{MS: "New Zealand Standard Time:", Posix: "Pacific/Auckland"},
	{MS: `"New Zealand Standard Time"`, Posix: "Pacific/Auckland"},

	// South America
	{MS: "E. South America Standard Time:", Posix: "America/Sao_Paulo"},
	{MS: `"E. South America Standard Time"`, Posix: "America/Sao_Paulo"},
	{MS: "Argentina Standard Time:", Posix: "America/Argentina/Buenos_Aires"},
	{MS: `"Argentina Standard Time"`, Posix: "America/Argentina/Buenos_Aires"},

	// Explicit UTC identifiers; last so they never shadow a named zone.
	{MS: "Coordinated Universal Time", Posix: "UTC"},
	{MS: "UTC:", Posix: "UTC"},
	{MS: `"UTC"`, Posix: "UTC"},
}

// Zones resolves Microsoft timezone tokens to loaded locations. It replaces
// the process-wide TZ variable: each conversion receives its location
// explicitly, so a Zones value is safe for concurrent use.
type Zones struct {
	table []TZXRef
	lower []string
	load  func(name string) (*time.Location, error)

	mu    sync.Mutex
	cache map[string]*time.Location
}

// NewZones builds a resolver from the compiled-in table followed by extra.
// Compiled-in entries keep priority over extra ones.
func NewZones(extra ...TZXRef) *Zones {
	table := make([]TZXRef, 0, len(Ms2Posix)+len(extra))
	table = append(table, Ms2Posix...)
	for _, x := range extra {
		if x.MS == "" || x.Posix == "" {
			continue
		}
		table = append(table, x)
	}

	lower := make([]string, len(table))
	for i, x := range table {
		lower[i] = strings.ToLower(x.MS)
	}

	return &Zones{
		table: table,
		lower: lower,
		load:  time.LoadLocation,
		cache: make(map[string]*time.Location),
	}
}

// Resolve returns the POSIX zone name of the first table entry whose token
// occurs, ignoring case, anywhere in raw.
func (z *Zones) Resolve(raw string) (string, error) {
	haystack := strings.ToLower(raw)
	for i, tok := range z.lower {
		if strings.Contains(haystack, tok) {
			return z.table[i].Posix, nil
		}
	}
	return "", lookupError(raw, ErrUnknownTimezone)
}

// Location resolves raw and loads the zone from the timezone database.
func (z *Zones) Location(raw string) (*time.Location, error) {
	name, err := z.Resolve(raw)
	if err != nil {
		return nil, err
	}

	z.mu.Lock()
	defer z.mu.Unlock()
	if loc, ok := z.cache[name]; ok {
		return loc, nil
	}
	loc, err := z.load(name)
	if err != nil {
		return nil, lookupError(raw, fmt.Errorf("%w: load %s: %v", ErrUnknownTimezone, name, err))
	}
	z.cache[name] = loc
	return loc, nil
}
