package media

// countryInfo pairs a display name with the main publication language.
type countryInfo struct {
	country  string
	language string
}

// countryMap covers the origin countries AniList actually returns. Codes are
// ISO 3166-1 alpha-3.
var countryMap = map[string]countryInfo{
	"JPN": {"Japan", "Japanese"},
	"KOR": {"South Korea", "Korean"},
	"CHN": {"China", "Chinese"},
	"TWN": {"Taiwan", "Chinese"},
	"USA": {"United States", "English"},
	"CAN": {"Canada", "English"},
	"GBR": {"United Kingdom", "English"},
	"AUS": {"Australia", "English"},
	"FRA": {"France", "French"},
	"DEU": {"Germany", "German"},
	"ESP": {"Spain", "Spanish"},
	"ITA": {"Italy", "Italian"},
	"BRA": {"Brazil", "Portuguese"},
	"MEX": {"Mexico", "Spanish"},
	"RUS": {"Russia", "Russian"},
	"IND": {"India", "Hindi"},
	"PHL": {"Philippines", "Filipino"},
	"THA": {"Thailand", "Thai"},
	"VNM": {"Vietnam", "Vietnamese"},
}

// CountryForCode resolves a country code to a display name and language.
// Unrecognized codes keep the raw code as the country name; an empty code
// maps to "Unknown".
func CountryForCode(code string) (country, language string) {
	if info, ok := countryMap[code]; ok {
		return info.country, info.language
	}
	if code == "" {
		return "Unknown", "Unknown"
	}
	return code, "Unknown"
}
