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
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/bgallie/filters/ascii85"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bgallie/enigma/cryptors"
)

const (
	pemType        = "ENIGMA Encrypted Message"
	modeClassic    = "classic"
	modeAdvanced   = "advanced"
	groupSize      = 5
	groupsPerLine  = 10
	headerMode     = "Mode"
	headerAlphabet = "Alphabet"
	headerBoundary = "Boundaries"
	headerFileName = "FileName"
)

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt [message]",
	Short: "Encrypt plaintext using the Enigma machine",
	Long: `Encrypt plaintext using the configured Enigma machine.  The message is read
from the command line, the input file, or the terminal.  Accents are stripped,
letters are upper cased, and symbols outside the alphabet are dropped.`,
	Run: func(cmd *cobra.Command, args []string) {
		encrypt(args)
	},
}

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:        "encode [message]",
	Short:      "Encode plaintext using the Enigma machine",
	Long:       `[DEPRECATED] Encode plaintext using the configured Enigma machine.`,
	Deprecated: "use \"encrypt\" instead.",
	Run: func(cmd *cobra.Command, args []string) {
		encrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(encodeCmd)
	for _, c := range []*cobra.Command{encryptCmd, encodeCmd} {
		c.Flags().BoolVarP(&useASCII85, "useASCII85", "a", false, "use ASCII85 encoding")
		c.Flags().BoolVarP(&usePem, "usePem", "p", false, "use PEM encoding.")
		c.Flags().BoolVarP(&advanced, "advanced", "A", false, "hide a random session key in the message")
	}
}

// cipherHelper streams rdr through an encrypt machine built around ecm.  The
// result can be read using the returned PipeReader.
func cipherHelper(rdr io.Reader, ecm cryptors.Crypter) *io.PipeReader {
	left, right := cryptors.CreateEncryptMachine(ecm)
	rRdr, rWrtr := io.Pipe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			// Shut down the encrypt machine.
			left <- cryptors.Block{}
			<-right
		}()

		var blk cryptors.Block
		for {
			cnt, err := io.ReadFull(rdr, blk.Symbols[:])
			if cnt > 0 {
				blk.Length = cnt
				left <- blk
				blk = <-right
				if blk.Err != nil {
					rWrtr.CloseWithError(blk.Err)
					return
				}
				if _, werr := rWrtr.Write(blk.Symbols[:blk.Length]); werr != nil {
					return
				}
			}
			if err != nil {
				if err == io.EOF || err == io.ErrUnexpectedEOF {
					err = nil
				}
				rWrtr.CloseWithError(err)
				return
			}
		}
	}()
	return rRdr
}

func formatBoundaries(boundaries []int) string {
	fields := make([]string, len(boundaries))
	for i, b := range boundaries {
		fields[i] = strconv.Itoa(b)
	}
	return strings.Join(fields, ",")
}

func encrypt(args []string) {
	settings, err := loadSettings(viper.GetViper())
	cobra.CheckErr(err)
	alphabet := settings.alphabet()
	fin, fout := getInputAndOutputFiles(true)
	defer fout.Close()

	msg := messageSource(args, fin, alphabet)
	mode := modeClassic
	var encIn *io.PipeReader
	if advanced {
		mode = modeAdvanced
		a, err := settings.newAdvanced()
		cobra.CheckErr(err)
		plain, err := io.ReadAll(msg)
		cobra.CheckErr(err)
		out, err := a.EncodeAdvancedString(string(plain), settings.Boundaries)
		cobra.CheckErr(err)
		encIn = fromTextHelper(strings.NewReader(out))
	} else {
		e, err := settings.newEnigma()
		cobra.CheckErr(err)
		encIn = cipherHelper(msg, e)
	}
	logger.Info().Str("mode", mode).Str("alphabet", alphabet.Name()).Msg("encrypting")

	if usePem {
		blck := pem.Block{Type: pemType, Headers: make(map[string]string)}
		blck.Headers[headerMode] = mode
		blck.Headers[headerAlphabet] = alphabet.Name()
		if advanced && len(settings.Boundaries) > 0 {
			blck.Headers[headerBoundary] = formatBoundaries(settings.Boundaries)
		}
		if len(inputFileName) > 0 && inputFileName != "-" {
			blck.Headers[headerFileName] = inputFileName
		}
		_, err = io.Copy(fout, pem.ToPem(bufio.NewReader(encIn), blck))
	} else if useASCII85 {
		_, err = io.Copy(fout, lines.SplitToLines(ascii85.ToASCII85(encIn)))
	} else {
		gw := newGroupWriter(fout, groupSize, groupsPerLine)
		_, err = io.Copy(gw, encIn)
		checkError(err)
		err = gw.Close()
	}
	checkError(err)
	wg.Wait()
}
