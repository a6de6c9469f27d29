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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bgallie/filters/ascii85"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/transform"
)

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt [ciphertext]",
	Short: "Decrypt an Enigma encrypted message.",
	Long:  `Decrypt a message encrypted by the configured Enigma machine.  PEM input is detected automatically.`,
	Run: func(cmd *cobra.Command, args []string) {
		decrypt(args)
	},
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:        "decode [ciphertext]",
	Short:      "Decode an Enigma encoded message.",
	Long:       `[DEPRECATED] Decode a message encoded by the configured Enigma machine.`,
	Deprecated: "use \"decrypt\" instead.",
	Run: func(cmd *cobra.Command, args []string) {
		decrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(decodeCmd)
	for _, c := range []*cobra.Command{decryptCmd, decodeCmd} {
		c.Flags().BoolVarP(&useASCII85, "useASCII85", "a", false, "the input is ASCII85 encoded")
		c.Flags().BoolVarP(&advanced, "advanced", "A", false, "the message carries a session key")
	}
}

// fromTextHelper provides the means to inject text input into the pipe
// stream used by the encrypt() and decrypt() functions.  The data can be
// read using the returned PipeReader.
func fromTextHelper(rdr io.Reader) *io.PipeReader {
	rRdr, rWrtr := io.Pipe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer rWrtr.Close()
		_, err := io.Copy(rWrtr, rdr)
		checkError(err)
	}()
	return rRdr
}

func parseBoundaries(s string) ([]int, error) {
	var boundaries []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		b, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid boundary %q: %w", field, err)
		}
		boundaries = append(boundaries, b)
	}
	return boundaries, nil
}

// applyHeaders takes the message mode and boundaries from a PEM block, and
// returns the output file name it carries.
func applyHeaders(blck pem.Block, settings *Settings) (string, error) {
	if mode, ok := blck.Headers[headerMode]; ok {
		advanced = mode == modeAdvanced
	}
	if bounds, ok := blck.Headers[headerBoundary]; ok {
		boundaries, err := parseBoundaries(bounds)
		if err != nil {
			return "", err
		}
		settings.Boundaries = boundaries
	}
	if name, ok := blck.Headers[headerAlphabet]; ok && name != settings.alphabet().Name() {
		logger.Warn().
			Str("message", name).
			Str("machine", settings.alphabet().Name()).
			Msg("the message was encrypted with a different alphabet")
	}
	return blck.Headers[headerFileName], nil
}

func decrypt(args []string) {
	settings, err := loadSettings(viper.GetViper())
	cobra.CheckErr(err)
	alphabet := settings.alphabet()
	fin, fout := getInputAndOutputFiles(false)
	defer func() { fout.Close() }()

	var src io.Reader
	if len(args) > 0 {
		src = strings.NewReader(strings.Join(args, " "))
	} else {
		bRdr := bufio.NewReader(fin)
		b, err := bRdr.Peek(5)
		checkError(err)
		if string(b) == "-----" {
			pRdr, blck := pem.FromPem(bRdr)
			ofName, err := applyHeaders(blck, &settings)
			cobra.CheckErr(err)
			if len(outputFileName) == 0 && len(ofName) > 0 {
				fout, err = os.Create(ofName)
				cobra.CheckErr(err)
			}
			src = pRdr
		} else if useASCII85 {
			src = ascii85.FromASCII85(lines.CombineLines(bRdr))
		} else {
			src = bRdr
		}
	}
	text := transform.NewReader(src, normalizer(alphabet))

	var decIn *io.PipeReader
	if advanced {
		a, err := settings.newAdvanced()
		cobra.CheckErr(err)
		cipher, err := io.ReadAll(text)
		cobra.CheckErr(err)
		plain, err := a.DecodeAdvancedString(string(cipher), settings.Boundaries)
		cobra.CheckErr(err)
		decIn = fromTextHelper(strings.NewReader(plain))
	} else {
		e, err := settings.newEnigma()
		cobra.CheckErr(err)
		decIn = cipherHelper(text, e)
	}
	logger.Info().Bool("advanced", advanced).Str("alphabet", alphabet.Name()).Msg("decrypting")

	_, err = io.Copy(fout, decIn)
	checkError(err)
	_, err = fmt.Fprintln(fout)
	checkError(err)
	wg.Wait() // Wait for the decryption machine to finish it's clean up.
}
