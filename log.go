package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/czh0526/zec-wallet/key"
	"github.com/czh0526/zec-wallet/sapling"
	"github.com/czh0526/zec-wallet/seed"
	"github.com/czh0526/zec-wallet/transparent"
	"github.com/czh0526/zec-wallet/waddrmgr"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard output and
// the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var (
	backendLog = btclog.NewBackend(logWriter{})

	// logRotator is nil until initLogRotator is called.
	logRotator *rotator.Rotator

	log     = backendLog.Logger("ZECW")
	tranLog = backendLog.Logger("TRAN")
	saplLog = backendLog.Logger("SAPL")
	keysLog = backendLog.Logger("KEYS")
	amgrLog = backendLog.Logger("AMGR")
	seedLog = backendLog.Logger("SEED")
)

func init() {
	transparent.UseLogger(tranLog)
	sapling.UseLogger(saplLog)
	key.UseLogger(keysLog)
	waddrmgr.UseLogger(amgrLog)
	seed.UseLogger(seedLog)
}

var subsystemLoggers = map[string]btclog.Logger{
	"ZECW": log,
	"TRAN": tranLog,
	"SAPL": saplLog,
	"KEYS": keysLog,
	"AMGR": amgrLog,
	"SEED": seedLog,
}

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.  It must be called before the
// package-global log rotater variables are used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logRotator = r
	return nil
}

// setLogLevel sets the logging level for provided subsystem.  Invalid
// subsystems are ignored.
func setLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}

func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// validLogLevels checks a --debuglevel value: either one level for all
// subsystems or a comma separated list of <subsystem>=<level> pairs.
func validLogLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if _, ok := btclog.LevelFromString(debugLevel); !ok {
			return fmt.Errorf("the specified debug level [%v] is "+
				"invalid", debugLevel)
		}
		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(pair, "=")
		if len(fields) != 2 {
			return fmt.Errorf("the specified debug level contains " +
				"an invalid subsystem/level pair")
		}

		subsysID, logLevel := fields[0], fields[1]
		if _, exists := subsystemLoggers[subsysID]; !exists {
			return fmt.Errorf("the specified subsystem [%v] is "+
				"invalid -- supported subsystems %v", subsysID,
				supportedSubsystems())
		}
		if _, ok := btclog.LevelFromString(logLevel); !ok {
			return fmt.Errorf("the specified debug level [%v] is "+
				"invalid", logLevel)
		}
	}
	return nil
}

// applyLogLevels sets the levels named by a --debuglevel value that has
// passed validLogLevels.
func applyLogLevels(debugLevel string) {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		setLogLevels(debugLevel)
		return
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(pair, "=")
		setLogLevel(fields[0], fields[1])
	}
}
