package schema

import "fmt"

// All derived metrics supported.
const (
	MaleFemaleDifference      MetricKey = "male_female_difference"
	UnemploymentPercentage    MetricKey = "unemployment_percentage"
	OwnerOccupiedPercentage   MetricKey = "owner_occupied_percentage"
	PovertyPercentage         MetricKey = "poverty_percentage"
	BachelorsDegreePercentage MetricKey = "bachelors_degree_percentage"
	HousingVacancyRate        MetricKey = "housing_vacancy_rate"
)

// DerivedMetric defines a value computed from raw Census variables rather than
// retrieved directly. Compute is a pure function of a row and the
// variable-name -> code lookup; it returns an error when a required field is
// missing, not numeric, or the calculation is undefined (e.g. zero denominator).
type DerivedMetric struct {
	Name              string
	RequiredVariables []string
	Compute           func(row Row, codes map[string]string) (float64, error)
}

// metricField coerces one required variable from a row, resolving the
// user-facing name through the code lookup.
func metricField(row Row, codes map[string]string, name string) (float64, error) {
	code, ok := codes[name]
	if !ok {
		return 0, fmt.Errorf("no code resolved for variable %q", name)
	}
	raw, ok := row[code]
	if !ok {
		return 0, fmt.Errorf("row missing field %s (%s)", code, name)
	}
	v, ok := CoerceFloat(raw)
	if !ok {
		return 0, fmt.Errorf("field %s value %v is not numeric", code, raw)
	}
	return v, nil
}

// ratio returns num/denom*100, erroring when the denominator is not positive.
func ratio(num, denom float64) (float64, error) {
	if denom <= 0 {
		return 0, fmt.Errorf("denominator %v is not positive", denom)
	}
	return num / denom * 100, nil
}

// DerivedMetricsMap is the closed registry of derived-metric calculations.
// Every required variable must be a key of VariableMap.
var DerivedMetricsMap = map[MetricKey]DerivedMetric{
	MaleFemaleDifference: {
		Name:              "Male-Female Population Difference",
		RequiredVariables: []string{"male_population", "female_population"},
		Compute: func(row Row, codes map[string]string) (float64, error) {
			male, err := metricField(row, codes, "male_population")
			if err != nil {
				return 0, err
			}
			female, err := metricField(row, codes, "female_population")
			if err != nil {
				return 0, err
			}
			return male - female, nil
		},
	},
	UnemploymentPercentage: {
		Name:              "Unemployment Rate (%)",
		RequiredVariables: []string{"unemployment_rate", "employment_rate"},
		Compute: func(row Row, codes map[string]string) (float64, error) {
			unemployed, err := metricField(row, codes, "unemployment_rate")
			if err != nil {
				return 0, err
			}
			employed, err := metricField(row, codes, "employment_rate")
			if err != nil {
				return 0, err
			}
			return ratio(unemployed, unemployed+employed)
		},
	},
	OwnerOccupiedPercentage: {
		Name:              "Owner-Occupied Housing Rate (%)",
		RequiredVariables: []string{"owner_occupied_housing_units", "total_housing_units"},
		Compute: func(row Row, codes map[string]string) (float64, error) {
			owned, err := metricField(row, codes, "owner_occupied_housing_units")
			if err != nil {
				return 0, err
			}
			total, err := metricField(row, codes, "total_housing_units")
			if err != nil {
				return 0, err
			}
			return ratio(owned, total)
		},
	},
	PovertyPercentage: {
		Name:              "Poverty Rate (%)",
		RequiredVariables: []string{"population_in_poverty", "total_population"},
		Compute: func(row Row, codes map[string]string) (float64, error) {
			poor, err := metricField(row, codes, "population_in_poverty")
			if err != nil {
				return 0, err
			}
			total, err := metricField(row, codes, "total_population")
			if err != nil {
				return 0, err
			}
			return ratio(poor, total)
		},
	},
	BachelorsDegreePercentage: {
		Name:              "Population with Bachelor's Degree or Higher (%)",
		RequiredVariables: []string{"population_with_bachelors_degree_or_higher", "total_population"},
		Compute: func(row Row, codes map[string]string) (float64, error) {
			grads, err := metricField(row, codes, "population_with_bachelors_degree_or_higher")
			if err != nil {
				return 0, err
			}
			total, err := metricField(row, codes, "total_population")
			if err != nil {
				return 0, err
			}
			return ratio(grads, total)
		},
	},
	HousingVacancyRate: {
		Name:              "Housing Vacancy Rate (%)",
		RequiredVariables: []string{"total_housing_units", "owner_occupied_housing_units", "renter_occupied_housing_units"},
		Compute: func(row Row, codes map[string]string) (float64, error) {
			total, err := metricField(row, codes, "total_housing_units")
			if err != nil {
				return 0, err
			}
			owned, err := metricField(row, codes, "owner_occupied_housing_units")
			if err != nil {
				return 0, err
			}
			rented, err := metricField(row, codes, "renter_occupied_housing_units")
			if err != nil {
				return 0, err
			}
			return ratio(total-owned-rented, total)
		},
	},
}

// MetricLabel returns the display name for a metric key, falling back to the key.
func MetricLabel(key MetricKey) string {
	if m, ok := DerivedMetricsMap[key]; ok {
		return m.Name
	}
	return string(key)
}
