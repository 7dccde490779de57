package dataset

// countryNames translates the two-letter codes of the world cities export into
// the display names used throughout the service.
var countryNames = map[string]string{
	"ae": "United Arab Emirates",
	"af": "Afghanistan",
	"am": "Armenia",
	"ao": "Angola",
	"ar": "Argentina",
	"at": "Austria",
	"au": "Australia",
	"az": "Azerbaijan",
	"bd": "Bangladesh",
	"be": "Belgium",
	"bf": "Burkina Faso",
	"bg": "Bulgaria",
	"br": "Brazil",
	"by": "Belarus",
	"ca": "Canada",
	"cd": "Democratic Congo Republic",
	"cg": "Congo",
	"ci": "Ivory Coast",
	"cl": "Chile",
	"cm": "Cameroon",
	"cn": "China",
	"co": "Colombia",
	"cz": "Czech Republic",
	"de": "Germany",
	"dk": "Denmark",
	"do": "Dominican Republic",
	"dz": "Algeria",
	"ec": "Ecuador",
	"eg": "Egypt",
	"es": "Spain",
	"et": "Ethiopia",
	"fr": "France",
	"gb": "England",
	"ge": "Georgia",
	"gh": "Ghana",
	"gn": "Konri",
	"ht": "Haiti",
	"hu": "Hungary",
	"id": "Indonesia",
	"ie": "Ireland",
	"in": "India",
	"iq": "Iraq",
	"ir": "Iran",
	"it": "Italy",
	"jp": "Japan",
	"ke": "Kenya",
	"kh": "Cambodia",
	"kr": "Korea",
	"kz": "Kazakhstan",
	"lb": "Lebanon",
	"ly": "Libya",
	"ma": "Morocco",
	"mg": "Madagascar",
	"ml": "Mali",
	"mm": "Myanmar",
	"mx": "Mexico",
	"my": "Malaysia",
	"mz": "Mozambique",
	"ng": "Nigeria",
	"ni": "Nicaragua",
	"pe": "Peru",
	"ph": "Philippines",
	"pk": "Pakistan",
	"pl": "Poland",
	"ro": "Romania",
	"rs": "Serbia",
	"ru": "Russia",
	"sa": "Saudi Arabia",
	"sd": "Sudan",
	"se": "Sweden",
	"sg": "Singapore",
	"sl": "Sierra Leone",
	"sn": "Senegal",
	"so": "Somalia",
	"sy": "Syria",
	"th": "Thailand",
	"tr": "Turkiye",
	"tw": "Taiwan",
	"tz": "Tanzania",
	"ua": "Ukrainian",
	"ug": "Uganda",
	"us": "United States of America",
	"uy": "Uruguay",
	"uz": "Uzbekistan",
	"ve": "Venezuela",
	"vn": "Vietnam",
	"za": "South Africa",
	"zm": "Zambia",
	"zw": "Zimbabwe",
}

// CountryName returns the display name for a country code. Unknown codes are
// returned unchanged.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}
