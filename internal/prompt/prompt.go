// Package prompt reads secrets from the user.
package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword

	output io.Writer = os.Stdout
)

// ErrMismatch is returned when a confirmed passphrase differs.
var ErrMismatch = errors.New("passphrases do not match")

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret reads one line without echo when stdin is a terminal.
func readSecret(reader *bufio.Reader, prefix string) ([]byte, error) {
	fmt.Fprintf(output, "%s: ", prefix)

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	pass, err := readPassword(fd)
	fmt.Fprintln(output)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(pass), nil
}

// Passphrase asks for a passphrase.  With confirm set the passphrase is
// asked for twice and must not be empty.
func Passphrase(reader *bufio.Reader, prefix string, confirm bool) (
	[]byte, error) {

	for {
		pass, err := readSecret(reader, prefix)
		if err != nil {
			return nil, err
		}
		if !confirm {
			return pass, nil
		}
		if len(pass) == 0 {
			fmt.Fprintln(output, "The passphrase must not be empty")
			continue
		}

		again, err := readSecret(reader, "Confirm passphrase")
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(pass, again) {
			return nil, ErrMismatch
		}
		return pass, nil
	}
}

// Mnemonic asks for a BIP39 mnemonic on a single line.
func Mnemonic(reader *bufio.Reader) (string, error) {
	fmt.Fprint(output, "Enter the mnemonic: ")
	line, err := readLine(reader)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(line), " "), nil
}
