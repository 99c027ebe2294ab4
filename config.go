package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/netparams"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "zec-wallet.log"
	defaultPool        = "transparent"
	defaultCount       = 1
	maxCount           = 10000
)

var (
	defaultAppDataDir = btcutil.AppDataDir("zecwallet", false)
	defaultLogDir     = filepath.Join(defaultAppDataDir, defaultLogDirname)
)

type config struct {
	AppDataDir string `short:"A" long:"appdata" description:"Application data directory for logs"`
	TestNet    bool   `long:"testnet" description:"Use the Zcash test network (default mainnet)"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	LogDir     string `long:"logdir" description:"Directory to log output."`

	// Derivation options
	Pool    string `long:"pool" description:"Address pool {transparent, sapling}"`
	Path    string `long:"path" description:"Derive the single key at this path, e.g. m/44'/133'/0'/0/0 (overrides --account and --index)"`
	Account uint32 `long:"account" description:"Account number"`
	Index   uint32 `long:"index" description:"First address index; the first diversifier index for sapling"`
	Count   uint32 `long:"count" description:"Number of addresses to derive"`

	// Seed options
	Seed        string `long:"seed" default-mask:"-" description:"Hex encoded seed"`
	Mnemonic    bool   `long:"mnemonic" description:"Prompt for a BIP39 mnemonic and passphrase"`
	SeedFile    string `long:"seedfile" description:"Passphrase sealed seed file"`
	GenMnemonic bool   `long:"genmnemonic" description:"Print a new mnemonic and exit -- with --seedfile its seed is also sealed to that file"`

	// Output options
	ShowKeys     bool `long:"showkeys" description:"Also print the exportable private keys"`
	ViewingKey   bool `long:"viewingkey" description:"Also print the extended viewing key"`
	Uncompressed bool `long:"uncompressed" description:"Export transparent private keys in the uncompressed WIF form"`
	JSON         bool `long:"json" description:"Print the results as a JSON array"`

	pool    netparams.Pool
	network netparams.Network
	path    hdpath.Path
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(defaultAppDataDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	return filepath.Clean(os.ExpandEnv(path))
}

// loadConfig parses args on top of the defaults and validates the result.
func loadConfig(args []string) (*config, error) {
	cfg := config{
		AppDataDir: defaultAppDataDir,
		DebugLevel: defaultLogLevel,
		LogDir:     defaultLogDir,
		Pool:       defaultPool,
		Count:      defaultCount,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	remaining, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", remaining)
	}

	// 日志目录跟随数据目录
	if cfg.AppDataDir != defaultAppDataDir && cfg.LogDir == defaultLogDir {
		cfg.LogDir = filepath.Join(cfg.AppDataDir, defaultLogDirname)
	}
	cfg.AppDataDir = cleanAndExpandPath(cfg.AppDataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	if cfg.SeedFile != "" {
		cfg.SeedFile = cleanAndExpandPath(cfg.SeedFile)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *config) validate() error {
	if err := validLogLevels(cfg.DebugLevel); err != nil {
		return err
	}

	var err error
	cfg.pool, err = netparams.ParsePool(cfg.Pool)
	if err != nil {
		return err
	}

	cfg.network = netparams.Mainnet
	if cfg.TestNet {
		cfg.network = netparams.Testnet
	}

	if cfg.Path != "" {
		cfg.path, err = hdpath.Parse(cfg.Path)
		if err != nil {
			return err
		}
	}

	if cfg.Uncompressed && cfg.pool != netparams.Transparent {
		return errors.New("--uncompressed applies to the transparent " +
			"pool only")
	}

	if cfg.Count == 0 || cfg.Count > maxCount {
		return fmt.Errorf("--count must be between 1 and %d", maxCount)
	}

	sources := 0
	for _, set := range []bool{cfg.Seed != "", cfg.Mnemonic, cfg.SeedFile != ""} {
		if set {
			sources++
		}
	}

	switch {
	case cfg.GenMnemonic && (cfg.Seed != "" || cfg.Mnemonic):
		return errors.New("--genmnemonic cannot be combined with " +
			"--seed or --mnemonic")
	case cfg.GenMnemonic:
		return nil
	case sources == 0:
		return errors.New("one of --seed, --mnemonic or --seedfile " +
			"is required")
	case sources > 1:
		return errors.New("--seed, --mnemonic and --seedfile are " +
			"mutually exclusive")
	}

	return nil
}
