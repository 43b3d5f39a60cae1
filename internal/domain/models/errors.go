package models

import "errors"

// ErrMalformedPayload marks provider data the normalizer cannot parse. It is
// fatal for the sub-fetch that hit it; the aggregation facade downgrades it to
// an empty result. Absence of a symbol is not an error and is signalled with
// empty/nil values instead.
var ErrMalformedPayload = errors.New("malformed provider payload")
