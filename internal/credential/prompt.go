package credential

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/ssh/terminal"
)

// TerminalPrompter reads the PIN from a terminal without echo, or a plain
// line when In is not a terminal.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stderr}
}

func (p *TerminalPrompter) Prompt(message string) (string, bool) {
	fmt.Fprint(p.Out, message+" ")
	fd := int(p.In.Fd())
	if terminal.IsTerminal(fd) {
		b, err := terminal.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(string(b)), true
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
