package waddrmgr

import "github.com/czh0526/zec-wallet/keyerr"

// managerError creates a keyerr.Error given a set of arguments.
func managerError(c keyerr.ErrorCode, desc string, err error) keyerr.Error {
	return keyerr.New(c, desc, err)
}
