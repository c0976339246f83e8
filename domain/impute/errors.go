package impute

import "errors"

// ErrNoNumericColumns is returned when a table has no column suitable for
// mean imputation.
var ErrNoNumericColumns = errors.New("no numeric columns found for imputation")
