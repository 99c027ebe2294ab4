/*
   Copyright (C) BABEC. All rights reserved.
   Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.

   SPDX-License-Identifier: Apache-2.0
*/

package key

import (
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/netparams"
)

// NewRootKey derives the master key of pool from seed.
func NewRootKey(pool netparams.Pool, seed []byte) (ExtendedKey, error) {
	engine, err := EngineFor(pool)
	if err != nil {
		return nil, err
	}
	return engine.NewMaster(seed)
}

// DeriveFromPath derives the descendant of root along path with engine.
func DeriveFromPath(engine Engine, root ExtendedKey, path hdpath.Path) (
	ExtendedKey, error) {

	if err := engine.ValidatePath(path); err != nil {
		return nil, err
	}

	k := root
	for _, index := range path {
		var err error
		k, err = engine.Child(k, index)
		if err != nil {
			return nil, err
		}
	}

	log.Tracef("Derived %v key at %v", engine.Pool(), path)
	return k, nil
}
