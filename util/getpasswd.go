package util

import (
	"fmt"
	"syscall"

	"golang.org/x/term"
)

// GetPasswd prompts for a passphrase without echoing it. The result is
// NFC-normalized so the same passphrase typed on different systems derives
// the same key.
func GetPasswd(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	bytepw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return nil, err
	}
	return []byte(FixUnicode(string(bytepw))), nil
}
