// Package constants provides shared constants for the loan-simulator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// PrincipalRoundingUnit is the granularity used when reporting a
	// reverse-solved principal (e.g. 10,000 yen)
	PrincipalRoundingUnit = 10000

	// EffectiveRateDecimals is the number of decimal places for the
	// effective annual rate in offer comparisons
	EffectiveRateDecimals = 3
)

// Input bounds
const (
	// MinTermPeriods is the minimum loan term in periods
	MinTermPeriods = 1

	// MaxTermPeriods is the maximum loan term in periods (50 years)
	MaxTermPeriods = 600

	// MaxAnnualRatePercent is the maximum supported annual interest rate
	MaxAnnualRatePercent = 20.0

	// MaxComparisonOffers is the maximum number of offers in one comparison
	MaxComparisonOffers = 5
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024
)
