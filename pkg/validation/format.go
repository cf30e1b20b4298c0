// Package validation provides shared input checks for the CLI surfaces.
package validation

import (
	"fmt"

	"github.com/loansim/loan-simulator/pkg/constants"
)

// ValidateOutputFormat rejects any output format outside the supported set.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	}
	return fmt.Errorf("unsupported output format %q, supported formats are %s and %s",
		format, constants.OutputFormatPretty, constants.OutputFormatCSV)
}
