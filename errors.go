package discreteid

import "errors"

// ErrConfiguration reports an invalid parameter or parameter combination.
var ErrConfiguration = errors.New("discreteid: invalid configuration")

// ErrState reports an operation that needs a prior step which has not run,
// e.g. fitting before computing distances or validating without a fit.
var ErrState = errors.New("discreteid: missing prerequisite")

// ErrNumericDegeneracy marks a fit that fell back to a boundary value.
// It is never returned as an error; it is recorded in FitResult.Degeneracy.
var ErrNumericDegeneracy = errors.New("discreteid: numeric degeneracy")

// ErrNoBracket is returned by a RootFinder when f(lo) and f(hi) share a sign.
var ErrNoBracket = errors.New("discreteid: root is not bracketed")
