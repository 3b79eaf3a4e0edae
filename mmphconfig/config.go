// Copyright 2014 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

// Package mmphconfig loads and dumps the TOML configuration used by
// cmd/mmphtool's build subcommand (§6): which distributor variant to
// build, the bucket size, and where to read keys from and write the
// constructed structure to.
package mmphconfig

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
)

// Variant selects which distributor implementation Build constructs.
type Variant string

const (
	VariantHollow   Variant = "hollow"
	VariantRelative Variant = "relative"
)

// Config is the top-level TOML document read by -config and written
// by the tool's dumpconfig subcommand.
type Config struct {
	Build BuildConfig
	Store StoreConfig
}

// BuildConfig controls the construction step.
type BuildConfig struct {
	Variant    Variant `toml:",omitempty"`
	BucketSize uint    `toml:",omitempty"`
	KeysFile   string  `toml:",omitempty"`
}

// StoreConfig controls where the constructed distributor is persisted
// (package mmphstore).
type StoreConfig struct {
	Path        string `toml:",omitempty"`
	UseLevelDB  bool   `toml:",omitempty"`
	LevelDBPath string `toml:",omitempty"`
}

// Defaults is the configuration used when no -config file is given.
var Defaults = Config{
	Build: BuildConfig{
		Variant:    VariantHollow,
		BucketSize: 1,
	},
	Store: StoreConfig{
		Path: "mmph.dat",
	},
}

// tomlSettings mirrors the teacher's node configuration loader
// exactly (§ambient stack): TOML keys are the bare Go field names, and
// an unrecognized field is a hard error rather than silently ignored,
// so a typo in a config file surfaces immediately instead of quietly
// falling back to a zero value.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// Load reads and decodes the TOML file at path into cfg.
func Load(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(path + ", " + err.Error())
	}
	return err
}

// Dump marshals cfg back to TOML, for the dumpconfig subcommand.
func Dump(cfg *Config) ([]byte, error) {
	return tomlSettings.Marshal(cfg)
}
