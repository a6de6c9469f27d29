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
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile        string
	inputFileName  string
	outputFileName string
	useASCII85     bool // Flag: True to use ascii85 encoding.
	usePem         bool // Flag: True to use PEM encoding.
	advanced       bool // Flag: True to use the session key protocol.
	logger         = zerolog.Nop()
	wg             sync.WaitGroup
	GitCommit      string = "not set"
	GitBranch      string = "not set"
	GitState       string = "not set"
	GitSummary     string = "not set"
	BuildDate      string = "not set"
	Version        string = "dev"
)

const (
	envPrefix    = "ENIGMA"
	outputSuffix = ".enigma"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "enigma",
	Short:   "An Enigma rotor machine simulator",
	Long:    `enigma encrypts/decrypts messages with a simulated Enigma rotor machine, optionally hiding a random session key inside each message.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(viper.GetString("log-level"), os.Stderr)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.enigma.yaml)")
	flags.StringVarP(&inputFileName, "inputFile", "i", "-", "Name of the plaintext file to encrypt/decrypt.")
	flags.StringVarP(&outputFileName, "outputFile", "o", "", "Name of the file containing the encrypted/decrypted plaintext.")
	addMachineFlags(flags)
	cobra.CheckErr(bindMachineFlags(viper.GetViper(), flags))
}

// machineFlags are the flags that feed Settings through viper.
var machineFlags = []string{"rotors", "rings", "positions", "plugboard", "extended", "boundaries", "instructions", "log-level"}

func addMachineFlags(flags *pflag.FlagSet) {
	flags.StringSliceP("rotors", "r", []string{"B", "I", "II", "III"}, "rotors from the reflector to the rightmost rotor: a historical name, a wiring, or WIRING:NOTCH")
	flags.IntSlice("rings", nil, "ring settings of the non-reflector rotors (default all 1)")
	flags.String("positions", "", "starting positions of the non-reflector rotors (default all the first symbol)")
	flags.StringSlice("plugboard", nil, "plug leads, e.g. AB,CD")
	flags.BoolP("extended", "x", false, "use the 36 symbol alphabet of letters and digits")
	flags.IntSlice("boundaries", nil, "segment boundaries of an advanced message")
	flags.String("instructions", "SRP", "session settings randomized by an advanced message: S(wap), R(ing), P(osition)")
	flags.String("log-level", "warn", "log level: trace, debug, info, warn, error or disabled")
}

func bindMachineFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, name := range machineFlags {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".enigma" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".enigma")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

/*
	getInputAndOutputFiles will return the input and output files to use while
	encrypting/decrypting data.  If input and/or output files names were given,
	then those files will be opened.  Otherwise stdin and stdout are used.
*/
func getInputAndOutputFiles(encode bool) (*os.File, *os.File) {
	var fin *os.File
	var err error

	if len(inputFileName) > 0 && inputFileName != "-" {
		fin, err = os.Open(inputFileName)
		cobra.CheckErr(err)
	} else {
		fin = os.Stdin
	}

	var fout *os.File

	if len(outputFileName) > 0 {
		if outputFileName == "-" {
			fout = os.Stdout
		} else {
			fout, err = os.Create(outputFileName)
			cobra.CheckErr(err)
		}
	} else if inputFileName == "-" || inputFileName == "" {
		fout = os.Stdout
	} else if encode {
		outputFileName = inputFileName + outputSuffix
		fout, err = os.Create(outputFileName)
		cobra.CheckErr(err)
	} else {
		if strings.HasSuffix(inputFileName, outputSuffix) {
			outputFileName = strings.TrimSuffix(inputFileName, outputSuffix)
			fout, err = os.Create(outputFileName)
			cobra.CheckErr(err)
		} else {
			fout = os.Stdout
		}
	}
	logger.Debug().Str("input", inputFileName).Str("output", outputFileName).Msg("files selected")
	return fin, fout
}

// checkError checks for error that are not io.EOF and io.ErrUnexpectedEOF and logs them.
func checkError(e error) {
	if e != io.EOF && e != io.ErrUnexpectedEOF {
		cobra.CheckErr(e)
	}
}
