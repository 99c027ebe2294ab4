package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/internal/zero"
	"github.com/czh0526/zec-wallet/netparams"
	"github.com/czh0526/zec-wallet/waddrmgr"
)

var (
	cfg *config
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	if err := walletMain(); err != nil {
		os.Exit(1)
	}
}

func walletMain() error {
	tcfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	cfg = tcfg

	params, err := netparams.ForNetwork(cfg.network)
	if err != nil {
		return err
	}

	logFile := filepath.Join(networkDir(cfg.LogDir, params), defaultLogFilename)
	if err := initLogRotator(logFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer logRotator.Close()
	applyLogLevels(cfg.DebugLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addInterruptHandler(cancel)

	reader := bufio.NewReader(os.Stdin)
	if cfg.GenMnemonic {
		if err := genMnemonic(cfg, reader, os.Stdout); err != nil {
			log.Errorf("Unable to generate mnemonic: %v", err)
			return err
		}
		return nil
	}

	provider, err := seedProvider(cfg, reader)
	if err != nil {
		log.Errorf("Unable to load seed: %v", err)
		return err
	}
	seedBytes, err := provider.Seed()
	if err != nil {
		log.Errorf("Unable to load seed: %v", err)
		return err
	}
	defer zero.Bytes(seedBytes)

	if err := run(ctx, cfg, seedBytes, os.Stdout); err != nil {
		log.Errorf("Derivation failed: %v", err)
		return err
	}
	return nil
}

// entry is one derived address and, when asked for, the keys behind it.
type entry struct {
	Path             string `json:"path"`
	DiversifierIndex string `json:"diversifierIndex,omitempty"`
	Address          string `json:"address"`
	Key              string `json:"key,omitempty"`
	ViewingKey       string `json:"viewingKey,omitempty"`
}

// exportKey returns the importable private key at path.
func exportKey(cfg *config, seedBytes []byte, path hdpath.Path) (string, error) {
	if cfg.pool == netparams.Transparent {
		return waddrmgr.DeriveWIF(seedBytes, path, cfg.network,
			!cfg.Uncompressed)
	}
	return waddrmgr.DeriveExportableKey(seedBytes, path, cfg.pool,
		cfg.network)
}

// run derives and prints what cfg asks for.
func run(ctx context.Context, cfg *config, seedBytes []byte,
	w io.Writer) error {

	var (
		addrs []waddrmgr.ManagedAddress
		err   error
	)
	if cfg.path != nil {
		var addr waddrmgr.ManagedAddress
		addr, err = waddrmgr.DeriveAddress(seedBytes, cfg.path, cfg.pool,
			cfg.network)
		addrs = []waddrmgr.ManagedAddress{addr}
	} else {
		addrs, err = waddrmgr.DeriveAddresses(ctx, seedBytes, cfg.pool,
			cfg.network, cfg.Account, cfg.Index, cfg.Count)
	}
	if err != nil {
		return err
	}

	// Sapling addresses of one batch share a path and so a key.
	type keys struct{ key, viewingKey string }
	keyPaths := make([]hdpath.Path, 0, len(addrs))
	pathKeys := make(map[string]*keys)
	for _, addr := range addrs {
		path := addr.DerivationPath()
		if _, ok := pathKeys[path.String()]; ok {
			continue
		}

		k := &keys{}
		if cfg.ShowKeys {
			k.key, err = exportKey(cfg, seedBytes, path)
			if err != nil {
				return err
			}
		}
		if cfg.ViewingKey {
			k.viewingKey, err = waddrmgr.DeriveViewingKey(seedBytes,
				path, cfg.pool, cfg.network)
			if err != nil {
				return err
			}
		}
		pathKeys[path.String()] = k
		keyPaths = append(keyPaths, path)
	}

	if cfg.JSON {
		entries := make([]entry, 0, len(addrs))
		for _, addr := range addrs {
			path := addr.DerivationPath().String()
			e := entry{
				Path:       path,
				Address:    addr.String(),
				Key:        pathKeys[path].key,
				ViewingKey: pathKeys[path].viewingKey,
			}
			if a, ok := addr.(waddrmgr.ManagedShieldedAddress); ok {
				e.DiversifierIndex = a.DiversifierIndex().String()
			}
			entries = append(entries, e)
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return err
		}
		log.Debugf("Printed %d %v addresses as JSON", len(addrs), cfg.pool)
		return nil
	}

	for _, addr := range addrs {
		switch a := addr.(type) {
		case waddrmgr.ManagedShieldedAddress:
			fmt.Fprintf(w, "%v\t%v\t%v\n", a.DerivationPath(),
				a.DiversifierIndex(), a)
		default:
			fmt.Fprintf(w, "%v\t%v\n", a.DerivationPath(), a)
		}
	}

	for _, path := range keyPaths {
		k := pathKeys[path.String()]
		if cfg.ShowKeys {
			fmt.Fprintf(w, "%v\tkey\t%v\n", path, k.key)
		}
		if cfg.ViewingKey {
			fmt.Fprintf(w, "%v\tviewing key\t%v\n", path, k.viewingKey)
		}
	}

	log.Debugf("Printed %d %v addresses", len(addrs), cfg.pool)
	return nil
}
