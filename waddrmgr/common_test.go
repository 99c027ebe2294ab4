package waddrmgr

import (
	"errors"
	"testing"

	"github.com/czh0526/zec-wallet/keyerr"
)

func checkManagerError(t *testing.T, testName string, gotErr error,
	wantErrCode keyerr.ErrorCode) bool {

	t.Helper()

	var merr keyerr.Error
	if !errors.As(gotErr, &merr) {
		t.Errorf("%s: unexpected error type - got %T, want %T",
			testName, gotErr, keyerr.Error{})
		return false
	}
	if merr.ErrorCode != wantErrCode {
		t.Errorf("%s: unexpected error code - got %s (%s), want %s",
			testName, merr.ErrorCode, merr.Description, wantErrCode)
		return false
	}

	return true
}
