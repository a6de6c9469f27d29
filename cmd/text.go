/*
Copyright © 2021 Billy G. Allie <bill.allie@defiant.mug.org>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/bgallie/enigma/cryptors"
)

// normalizer folds text onto the alphabet: accents are stripped, letters are
// upper cased, and anything that is still not an alphabet symbol is dropped.
func normalizer(alphabet *cryptors.Alphabet) transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Upper(language.Und),
		norm.NFC,
		runes.Remove(runes.Predicate(func(r rune) bool {
			return r >= 0x80 || !alphabet.Contains(byte(r))
		})),
	)
}

// normalize returns s folded onto the alphabet.
func normalize(alphabet *cryptors.Alphabet, s string) string {
	out, _, err := transform.String(normalizer(alphabet), s)
	if err != nil {
		return ""
	}
	return out
}

// messageReader returns a reader over the message text folded onto the
// alphabet.  When the message comes from a terminal it is read without echo.
func messageReader(fin *os.File, alphabet *cryptors.Alphabet) io.Reader {
	var rdr io.Reader = fin
	if fin == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "Enter the message: ")
		msg, err := term.ReadPassword(int(os.Stdin.Fd()))
		cobra.CheckErr(err)
		fmt.Fprintln(os.Stderr, "")
		rdr = strings.NewReader(string(msg))
	}
	return transform.NewReader(rdr, normalizer(alphabet))
}

// messageSource returns the message given on the command line, or else the
// message read from fin.
func messageSource(args []string, fin *os.File, alphabet *cryptors.Alphabet) io.Reader {
	if len(args) > 0 {
		return transform.NewReader(strings.NewReader(strings.Join(args, " ")), normalizer(alphabet))
	}
	return messageReader(fin, alphabet)
}

// groupWriter writes symbols in space separated groups of size, with perLine
// groups on each line.
type groupWriter struct {
	w       io.Writer
	size    int
	perLine int
	n       int
}

func newGroupWriter(w io.Writer, size, perLine int) *groupWriter {
	return &groupWriter{w: w, size: size, perLine: perLine}
}

func (g *groupWriter) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)+len(p)/g.size+1)
	for _, c := range p {
		if g.n > 0 && g.n%g.size == 0 {
			if (g.n/g.size)%g.perLine == 0 {
				out = append(out, '\n')
			} else {
				out = append(out, ' ')
			}
		}
		out = append(out, c)
		g.n++
	}
	if _, err := g.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close ends the last line.
func (g *groupWriter) Close() error {
	if g.n == 0 {
		return nil
	}
	_, err := g.w.Write([]byte{'\n'})
	return err
}
