// Package waddrmgr derives Zcash addresses and exportable keys from a seed
// for either the transparent or the Sapling pool.
package waddrmgr

import (
	"context"
	"fmt"
	"runtime"

	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/key"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
	"github.com/czh0526/zec-wallet/sapling"
	"golang.org/x/sync/errgroup"
)

// derivedKey is a key at the end of a path together with what is needed to
// encode it.
type derivedKey struct {
	engine key.Engine
	params *netparams.Params
	path   hdpath.Path
	key    key.ExtendedKey
}

// deriveKey derives the key at path from seed.  The path is checked
// before any curve work is done.
func deriveKey(seed []byte, path hdpath.Path, pool netparams.Pool,
	network netparams.Network) (*derivedKey, error) {

	params, err := netparams.ForNetwork(network)
	if err != nil {
		return nil, err
	}
	engine, err := key.EngineFor(pool)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidatePath(path); err != nil {
		return nil, err
	}

	root, err := engine.NewMaster(seed)
	if err != nil {
		return nil, err
	}
	k, err := key.DeriveFromPath(engine, root, path)
	if err != nil {
		return nil, err
	}

	return &derivedKey{
		engine: engine,
		params: params,
		path:   path,
		key:    k,
	}, nil
}

// DeriveAddress derives the address at path from seed.  For the Sapling
// pool this is the default payment address of the key at path.
func DeriveAddress(seed []byte, path hdpath.Path, pool netparams.Pool,
	network netparams.Network) (ManagedAddress, error) {

	dk, err := deriveKey(seed, path, pool, network)
	if err != nil {
		return nil, err
	}

	addr, err := keyToManaged(dk.params, dk.path, dk.key,
		sapling.DiversifierIndex{})
	if err != nil {
		return nil, err
	}

	log.Debugf("Derived %v address %v at %v", pool, addr, path)
	return addr, nil
}

// DeriveExportableKey returns the importable private key at path: WIF for
// the transparent pool, the extended spending key for Sapling.
func DeriveExportableKey(seed []byte, path hdpath.Path, pool netparams.Pool,
	network netparams.Network) (string, error) {

	dk, err := deriveKey(seed, path, pool, network)
	if err != nil {
		return "", err
	}
	return dk.engine.ExportKey(dk.key, dk.params)
}

// DeriveWIF returns the WIF of the transparent private key at path.
// Without compress the key is flagged for the uncompressed public key, the
// form some older wallets import.
func DeriveWIF(seed []byte, path hdpath.Path, network netparams.Network,
	compress bool) (string, error) {

	dk, err := deriveKey(seed, path, netparams.Transparent, network)
	if err != nil {
		return "", err
	}
	return key.TransparentEngine{}.ExportWIF(dk.key, dk.params, compress)
}

// DeriveExtendedKey returns the serialized extended private key at path.
func DeriveExtendedKey(seed []byte, path hdpath.Path, pool netparams.Pool,
	network netparams.Network) (string, error) {

	dk, err := deriveKey(seed, path, pool, network)
	if err != nil {
		return "", err
	}
	return dk.engine.ExportExtendedKey(dk.key, dk.params)
}

// DeriveViewingKey returns the extended public key (transparent) or the
// extended full viewing key (Sapling) at path.
func DeriveViewingKey(seed []byte, path hdpath.Path, pool netparams.Pool,
	network netparams.Network) (string, error) {

	dk, err := deriveKey(seed, path, pool, network)
	if err != nil {
		return "", err
	}
	return dk.engine.ExportViewingKey(dk.key, dk.params)
}

// DeriveAddresses derives count receiving addresses of account starting at
// start.
//
// Transparent addresses are m/44'/coin'/account'/0/i for i in
// [start, start+count) and are derived concurrently from the branch key.
// Sapling addresses all belong to m/32'/coin'/account'; the first is at
// the first valid diversifier index at or after start and each following
// one at the first valid index after its predecessor.
func DeriveAddresses(ctx context.Context, seed []byte, pool netparams.Pool,
	network netparams.Network, account, start, count uint32) (
	[]ManagedAddress, error) {

	if count == 0 {
		return nil, nil
	}

	switch pool {
	case netparams.Transparent:
		return deriveTransparentAddresses(
			ctx, seed, network, account, start, count)
	case netparams.Sapling:
		return deriveShieldedAddresses(
			ctx, seed, network, account, start, count)
	default:
		str := fmt.Sprintf("unknown pool %v", pool)
		return nil, managerError(keyerr.ErrUnsupportedFormat, str, nil)
	}
}

func deriveTransparentAddresses(ctx context.Context, seed []byte,
	network netparams.Network, account, start, count uint32) (
	[]ManagedAddress, error) {

	if uint64(start)+uint64(count) > uint64(MaxAddressIndex)+1 {
		str := fmt.Sprintf("addresses %d..%d exceed the maximum index "+
			"%d", start, uint64(start)+uint64(count)-1,
			MaxAddressIndex)
		return nil, managerError(keyerr.ErrIndexOverflow, str, nil)
	}

	leafPath, err := DefaultPath(netparams.Transparent, network, account,
		start)
	if err != nil {
		return nil, err
	}
	branchPath := leafPath[:len(leafPath)-1]

	branch, err := deriveKey(seed, branchPath, netparams.Transparent,
		network)
	if err != nil {
		return nil, err
	}

	addrs := make([]ManagedAddress, count)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i := uint32(0); i < count; i++ {
		if egCtx.Err() != nil {
			break
		}

		i := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			child, err := branch.engine.Child(
				branch.key, hdpath.Normal(start+i))
			if err != nil {
				return err
			}

			// 派生时可能跳过无效索引，路径以子密钥的实际索引为准
			path := branchPath.Child(child.ChildIndex())
			addr, err := keyToManaged(branch.params, path, child,
				sapling.DiversifierIndex{})
			if err != nil {
				return err
			}

			addrs[i] = addr
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debugf("Derived %d transparent addresses of account %d from "+
		"index %d", count, account, start)

	return addrs, nil
}

func deriveShieldedAddresses(ctx context.Context, seed []byte,
	network netparams.Network, account, start, count uint32) (
	[]ManagedAddress, error) {

	path, err := DefaultPath(netparams.Sapling, network, account, 0)
	if err != nil {
		return nil, err
	}
	dk, err := deriveKey(seed, path, netparams.Sapling, network)
	if err != nil {
		return nil, err
	}

	// 只需查看密钥即可生成地址
	viewingKey := dk.key.(*sapling.ExtendedSpendingKey).ExtendedFullViewingKey()

	addrs := make([]ManagedAddress, 0, count)
	next := sapling.NewDiversifierIndex(uint64(start))
	for i := uint32(0); i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		addr, err := keyToManaged(dk.params, path, viewingKey, next)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)

		var ok bool
		index := addr.(ManagedShieldedAddress).DiversifierIndex()
		next, ok = index.Next()
		if !ok && i+1 < count {
			str := fmt.Sprintf("diversifier index space exhausted "+
				"after %d addresses", i+1)
			return nil, managerError(
				keyerr.ErrDiversifierExhaustion, str, nil)
		}
	}

	log.Debugf("Derived %d sapling addresses of account %d from "+
		"diversifier index %d", count, account, start)

	return addrs, nil
}
