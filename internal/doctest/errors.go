package doctest

import (
	"github.com/odoogo/odoogo/internal/common/apperrors"
)

var (
	ErrDoctest       = apperrors.New("doctest error")
	ErrParse         = ErrDoctest.New("cannot parse testable block")
	ErrUnknownBlock  = ErrDoctest.New("no function registered for block")
	ErrExpectFailed  = ErrDoctest.New("expect expression not satisfied")
	ErrExpectInvalid = ErrDoctest.New("expect expression did not evaluate")
	ErrExpectTimeout = ErrDoctest.New("expect expression timed out")
)
