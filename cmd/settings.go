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
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/cryptors/permutator"
	"github.com/bgallie/enigma/cryptors/rotor"
	"github.com/bgallie/enigma/engine"
)

// Settings is the machine configuration gathered from the config file, the
// environment and the command line.
type Settings struct {
	Rotors       []string `mapstructure:"rotors" validate:"min=4,max=5,dive,required"`
	Rings        []int    `mapstructure:"rings" validate:"omitempty,dive,min=1,max=36"`
	Positions    string   `mapstructure:"positions" validate:"omitempty,alphanum,uppercase"`
	Plugboard    []string `mapstructure:"plugboard" validate:"omitempty,dive,len=2,alphanum,uppercase"`
	Extended     bool     `mapstructure:"extended"`
	Boundaries   []int    `mapstructure:"boundaries" validate:"omitempty,ascending,dive,min=1"`
	Instructions string   `mapstructure:"instructions" validate:"omitempty,max=3,excludesall=ABCDEFGHIJKLMNOQTUVWXYZ0123456789"`
	LogLevel     string   `mapstructure:"log-level" validate:"omitempty,oneof=trace debug info warn error disabled"`
}

func newValidator() (*validator.Validate, error) {
	validate := validator.New()
	if err := validate.RegisterValidation("ascending", validateAscending); err != nil {
		return nil, err
	}
	return validate, nil
}

// validateAscending accepts an integer slice whose values strictly increase.
func validateAscending(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	for i := 1; i < field.Len(); i++ {
		if field.Index(i).Int() <= field.Index(i-1).Int() {
			return false
		}
	}
	return true
}

// loadSettings reads the settings out of viper and validates them.
func loadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return s, err
	}
	s.Positions = strings.ToUpper(s.Positions)
	s.Instructions = strings.ToUpper(s.Instructions)
	for i, lead := range s.Plugboard {
		s.Plugboard[i] = strings.ToUpper(strings.TrimSpace(lead))
	}

	validate, err := newValidator()
	if err != nil {
		return s, err
	}
	if err := validate.Struct(s); err != nil {
		return s, err
	}
	return s, nil
}

func (s Settings) alphabet() *cryptors.Alphabet {
	if s.Extended {
		return cryptors.Extended
	}
	return cryptors.Classic
}

// machineConfig turns the settings into a machine configuration.
func (s Settings) machineConfig() (machine.Config, error) {
	cfg := machine.Config{
		Alphabet:  s.alphabet(),
		Positions: s.Positions,
	}
	// an unset --rings flag unmarshals to an empty slice
	if len(s.Rings) > 0 {
		cfg.Rings = s.Rings
	}
	for _, r := range s.Rotors {
		spec, err := rotor.ParseSpec(r)
		if err != nil {
			return cfg, err
		}
		cfg.Rotors = append(cfg.Rotors, spec)
	}
	return cfg, nil
}

func (s Settings) instructions() ([]permutator.Kind, error) {
	kinds := make([]permutator.Kind, 0, len(s.Instructions))
	for i := 0; i < len(s.Instructions); i++ {
		k := permutator.Kind(s.Instructions[i])
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %q", engine.ErrInstruction, s.Instructions[i])
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func (s Settings) plugboardOption() []engine.Option {
	if len(s.Plugboard) == 0 {
		return nil
	}
	return []engine.Option{engine.WithPlugboard(s.Plugboard...)}
}

func (s Settings) newEnigma() (*engine.Enigma, error) {
	cfg, err := s.machineConfig()
	if err != nil {
		return nil, err
	}
	opts := append(s.plugboardOption(), engine.WithLogger(logger))
	return engine.New(cfg, opts...)
}

func (s Settings) newAdvanced() (*engine.Advanced, error) {
	cfg, err := s.machineConfig()
	if err != nil {
		return nil, err
	}
	kinds, err := s.instructions()
	if err != nil {
		return nil, err
	}
	opts := append(s.plugboardOption(), engine.WithLogger(logger), engine.WithInstructions(kinds...))
	return engine.NewAdvanced(cfg, opts...)
}
