package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeInvalidParameter, "invalid parameter: %s", "test")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter: test", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeCacheWriteFailed, "cache write failed", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeCacheWriteFailed, err.Code)
	suite.Equal("cache write failed", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeCacheWriteFailed, cause, "cache write failed for symbol: %s", "AAPL")
	suite.NotNil(err)
	suite.Equal(ErrCodeCacheWriteFailed, err.Code)
	suite.Equal("cache write failed for symbol: AAPL", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeCacheWriteFailed, "cache write failed", cause)
	suite.Equal("[301] cache write failed: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeCacheWriteFailed, "cache write failed", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal(ErrCodeInvalidParameter, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeCacheWriteFailed, "cache write failed")
	err := Wrap(ErrCodeCacheReadFailed, "cache read failed", cause)
	// GetCode should return the outermost error's code
	suite.Equal(ErrCodeCacheReadFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromUncodedError() {
	err := errors.New("standard error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.True(HasCode(err, ErrCodeInvalidParameter))
	suite.False(HasCode(err, ErrCodeCacheWriteFailed))
}

func (suite *ErrorTestSuite) TestIsError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeCacheWriteFailed, "cache write failed", cause)
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestAsError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	var codedErr *Error
	suite.True(As(err, &codedErr))
	suite.Equal(ErrCodeInvalidParameter, codedErr.Code)
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	// Verify some key error codes have expected values
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(201), ErrCodeInsufficientBaselineData)
	suite.Equal(ErrorCode(300), ErrCodeCacheReadFailed)
	suite.Equal(ErrorCode(402), ErrCodeInvalidProvider)
}

func (suite *ErrorTestSuite) TestInsufficientBaselineError() {
	err := NewInsufficientBaselineError("SPY", 2022)
	suite.NotNil(err)
	suite.Equal("SPY", err.Symbol)
	suite.Equal(2022, err.Year)
	suite.Equal("insufficient baseline data: no bars for SPY in January 2022", err.Error())
	suite.Equal(ErrCodeInsufficientBaselineData, err.Code())
}

func (suite *ErrorTestSuite) TestIsInsufficientBaselineError() {
	baselineErr := NewInsufficientBaselineError("SPY", 2022)
	suite.True(IsInsufficientBaselineError(baselineErr))

	// Wrapped in a coded error
	wrapped := Wrap(ErrCodeInvalidParameter, "failed to derive monthly ranges", baselineErr)
	suite.True(IsInsufficientBaselineError(wrapped))

	// Wrapped with fmt
	suite.True(IsInsufficientBaselineError(fmt.Errorf("download: %w", baselineErr)))

	// Test with standard error
	suite.False(IsInsufficientBaselineError(errors.New("standard error")))

	// Test with *Error type
	suite.False(IsInsufficientBaselineError(New(ErrCodeInvalidParameter, "invalid parameter")))

	// Test with nil
	suite.False(IsInsufficientBaselineError(nil))
}

func (suite *ErrorTestSuite) TestGetCodeFromBaselineError() {
	err := fmt.Errorf("download: %w", NewInsufficientBaselineError("QQQ", 2023))
	suite.Equal(ErrCodeInsufficientBaselineData, GetCode(err))
	suite.True(HasCode(err, ErrCodeInsufficientBaselineData))
}
