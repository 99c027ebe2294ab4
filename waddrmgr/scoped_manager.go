package waddrmgr

import (
	"fmt"

	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
)

const (
	DefaultAccountNum = 0

	// MaxAccountNum is the largest account; accounts are hardened.
	MaxAccountNum = hdpath.HardenedKeyStart - 1

	// MaxAddressIndex is the largest transparent address index.
	MaxAddressIndex = hdpath.HardenedKeyStart - 1

	ExternalBranch uint32 = 0
	InternalBranch uint32 = 1
)

const (
	purposeBIP0044 = 44
	purposeZIP0032 = 32
)

// KeyScope is the purpose and coin type prefix of a derivation path.
type KeyScope struct {
	Purpose uint32
	Coin    uint32
}

func (k KeyScope) String() string {
	return fmt.Sprintf("m/%d'/%d'", k.Purpose, k.Coin)
}

// Path returns m/purpose'/coin'.
func (k KeyScope) Path() hdpath.Path {
	return hdpath.Path{hdpath.Hardened(k.Purpose), hdpath.Hardened(k.Coin)}
}

// KeyScopeForPool returns the BIP44 scope of the transparent pool or the
// ZIP32 scope of the Sapling pool, with the coin type of network.
func KeyScopeForPool(pool netparams.Pool, network netparams.Network) (
	KeyScope, error) {

	params, err := netparams.ForNetwork(network)
	if err != nil {
		return KeyScope{}, err
	}

	switch pool {
	case netparams.Transparent:
		return KeyScope{Purpose: purposeBIP0044, Coin: params.HDCoinType}, nil
	case netparams.Sapling:
		return KeyScope{Purpose: purposeZIP0032, Coin: params.HDCoinType}, nil
	default:
		str := fmt.Sprintf("no key scope for pool %v", pool)
		return KeyScope{}, managerError(keyerr.ErrUnsupportedFormat, str, nil)
	}
}

// DefaultPath returns the conventional path of an address:
// m/44'/coin'/account'/0/index for the transparent pool and
// m/32'/coin'/account' for Sapling.  Sapling addresses of one account
// differ by diversifier index rather than by path, so index is ignored for
// that pool.
func DefaultPath(pool netparams.Pool, network netparams.Network,
	account, index uint32) (hdpath.Path, error) {

	scope, err := KeyScopeForPool(pool, network)
	if err != nil {
		return nil, err
	}
	if account > MaxAccountNum {
		str := fmt.Sprintf("account %d is greater than the maximum "+
			"allowed %d", account, MaxAccountNum)
		return nil, managerError(keyerr.ErrIndexOverflow, str, nil)
	}

	path := scope.Path().Child(hdpath.Hardened(account))
	if pool == netparams.Sapling {
		return path, nil
	}

	if index > MaxAddressIndex {
		str := fmt.Sprintf("address index %d is greater than the "+
			"maximum allowed %d", index, MaxAddressIndex)
		return nil, managerError(keyerr.ErrIndexOverflow, str, nil)
	}
	return path.Child(hdpath.Normal(ExternalBranch)).Child(hdpath.Normal(index)), nil
}
