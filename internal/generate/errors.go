package generate

import "errors"

// ErrMissingInput is returned when the BOM or the template document is
// not supplied. Both are required before any work starts.
var ErrMissingInput = errors.New("both the BOM and the DD1750 template documents are required")
