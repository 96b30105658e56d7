package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bdsample/internal/bdrom"
	"bdsample/internal/discfs"
)

// prompter asks yes/no questions on the command's stdin. End of input counts
// as "no".
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.ErrOrStderr(),
	}
}

func (p *prompter) confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (p *prompter) scanPolicy() bdrom.ScanPolicy {
	ask := func(kind string) func(discfs.FileInfo, error) bool {
		return func(file discfs.FileInfo, err error) bool {
			fmt.Fprintf(p.out, "Damaged %s %s: %v\n", kind, file.FullName(), err)
			return p.confirm("Skip it and continue scanning?")
		}
	}
	return bdrom.PolicyFuncs{
		Playlist:   ask("playlist"),
		StreamFile: ask("stream file"),
		StreamClip: ask("clip-info file"),
	}
}
