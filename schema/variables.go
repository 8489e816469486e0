package schema

// VariableMap maps human-readable names to Census Bureau ACS 5-Year variable IDs.
// Keys are lowercase for case-insensitive matching. Grouped by topic.
var VariableMap = map[string]string{
	// --- Demographics ---
	"total_population":  "B01003_001E",
	"median_age":        "B01002_001E",
	"male_population":   "B01001_002E",
	"female_population": "B01001_026E",

	// --- Economics ---
	"median_household_income": "B19013_001E",
	"per_capita_income":       "B19301_001E",
	"population_in_poverty":   "B17001_002E",
	"employment_rate":         "B23025_004E", // Employed civilian population 16+
	"unemployment_rate":       "B23025_005E", // Unemployed civilian population 16+

	// --- Housing ---
	"total_housing_units":            "B25001_001E",
	"owner_occupied_housing_units":   "B25003_002E",
	"renter_occupied_housing_units":  "B25003_003E",
	"median_home_value":              "B25077_001E",
	"median_gross_rent":              "B25064_001E",

	// --- Social & Education ---
	"population_with_bachelors_degree_or_higher": "B15003_022E",
	"population_with_high_school_diploma":        "B15003_017E",
	"foreign_born_population":                    "B05002_013E",
}

// VariableLabels maps Census variable codes back to display labels.
var VariableLabels = map[string]string{
	"B01003_001E": "Total Population",
	"B01002_001E": "Median Age",
	"B01001_002E": "Male Population",
	"B01001_026E": "Female Population",
	"B19013_001E": "Median Household Income",
	"B19301_001E": "Per Capita Income",
	"B17001_002E": "Population in Poverty",
	"B23025_004E": "Employed Population (16+)",
	"B23025_005E": "Unemployed Population (16+)",
	"B25001_001E": "Total Housing Units",
	"B25003_002E": "Owner-Occupied Housing Units",
	"B25003_003E": "Renter-Occupied Housing Units",
	"B25077_001E": "Median Home Value",
	"B25064_001E": "Median Gross Rent",
	"B15003_022E": "Population with Bachelor's Degree or Higher",
	"B15003_017E": "Population with High School Diploma",
	"B05002_013E": "Foreign-Born Population",
}

// StateFIPSMap maps state/territory names to their FIPS codes.
// Keys are lowercase for case-insensitive matching.
var StateFIPSMap = map[string]string{
	"alabama": "01", "alaska": "02", "arizona": "04", "arkansas": "05", "california": "06",
	"colorado": "08", "connecticut": "09", "delaware": "10", "district of columbia": "11",
	"florida": "12", "georgia": "13", "hawaii": "15", "idaho": "16", "illinois": "17",
	"indiana": "18", "iowa": "19", "kansas": "20", "kentucky": "21", "louisiana": "22",
	"maine": "23", "maryland": "24", "massachusetts": "25", "michigan": "26",
	"minnesota": "27", "mississippi": "28", "missouri": "29", "montana": "30",
	"nebraska": "31", "nevada": "32", "new hampshire": "33", "new jersey": "34",
	"new mexico": "35", "new york": "36", "north carolina": "37", "north dakota": "38",
	"ohio": "39", "oklahoma": "40", "oregon": "41", "pennsylvania": "42",
	"rhode island": "44", "south carolina": "45", "south dakota": "46", "tennessee": "47",
	"texas": "48", "utah": "49", "vermont": "50", "virginia": "51", "washington": "53",
	"west virginia": "54", "wisconsin": "55", "wyoming": "56",
	// --- Territories ---
	"puerto rico": "72", "guam": "66", "virgin islands": "78", "american samoa": "60",
	"northern mariana islands": "69",
}

// VariableLabel returns the display label for a code, falling back to the code itself.
func VariableLabel(code string) string {
	if label, ok := VariableLabels[code]; ok {
		return label
	}
	return code
}
