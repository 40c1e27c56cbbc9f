package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/i18n"
)

// promptPIN asks for the PIN on the terminal. It fails when stdin is not a
// terminal; COPYWRITER_PIN covers that case.
func promptPIN(lang string) config.PINFunc {
	return func() (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("no terminal to read the PIN from; set COPYWRITER_PIN")
		}
		fmt.Fprintf(os.Stderr, "%s: ", i18n.T(lang).CLI.EnterPIN)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read PIN: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
}

// readSecret reads a line without echo, or a plain line when stdin is
// piped.
func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	fmt.Fprint(os.Stderr, prompt)
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// readLine reads one line of plain input.
func readLine(r *bufio.Reader, prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
