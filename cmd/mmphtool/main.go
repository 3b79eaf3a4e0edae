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

// Command mmphtool builds, queries, and reports on monotone minimal
// perfect hash distributors from the command line (§6).
package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/probeum/mmph"
	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/hollow"
	"github.com/probeum/mmph/mmphconfig"
	"github.com/probeum/mmph/mmphlog"
	"github.com/probeum/mmph/mmphstore"
	"github.com/probeum/mmph/relative"
	"github.com/probeum/mmph/transform"
)

var log = mmphlog.Root()

func main() {
	app := cli.NewApp()
	app.Name = "mmphtool"
	app.Usage = "build and query monotone minimal perfect hash distributors"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "TOML configuration file"},
	}
	app.Commands = []cli.Command{
		buildCommand,
		queryCommand,
		statsCommand,
		dumpConfigCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("mmphtool failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) mmphconfig.Config {
	cfg := mmphconfig.Defaults
	if file := c.GlobalString("config"); file != "" {
		if err := mmphconfig.Load(file, &cfg); err != nil {
			log.Crit("failed to load config", "file", file, "err", err)
			os.Exit(1)
		}
	}
	return cfg
}

// vectorIdentity is the transform.Strategy[bits.Vector] every
// distributor this tool builds or loads uses: command-line keys are
// already transformed to bit vectors by readKeys before the builder
// ever sees them.
type vectorIdentity struct{}

func (vectorIdentity) ToBits(v bits.Vector) bits.Vector { return v }

var buildCommand = cli.Command{
	Name:  "build",
	Usage: "construct a distributor from a newline-delimited key file",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "variant", Usage: "hollow or relative"},
		cli.UintFlag{Name: "bucket", Usage: "bucket size"},
		cli.StringFlag{Name: "keys", Usage: "newline-delimited key file"},
		cli.StringFlag{Name: "out", Usage: "output file"},
	},
	Action: func(c *cli.Context) error {
		cfg := loadConfig(c)
		variant := mmphconfig.Variant(c.String("variant"))
		bucket := c.Uint("bucket")
		keysFile := c.String("keys")
		out := c.String("out")
		if keysFile == "" {
			keysFile = cfg.Build.KeysFile
		}
		if out == "" {
			out = cfg.Store.Path
		}
		if variant == "" {
			variant = cfg.Build.Variant
		}
		if bucket == 0 {
			bucket = cfg.Build.BucketSize
		}

		vecs, err := readKeys(keysFile)
		if err != nil {
			return err
		}
		log.Info("read keys", "count", len(vecs), "file", keysFile)

		b := mmph.NewBuilder()

		switch variant {
		case mmphconfig.VariantRelative:
			d, err := b.BuildRelative(bits.NewSliceIterator(vecs), int(bucket))
			if err != nil {
				return err
			}
			if err := mmphstore.SaveToFile(out, d); err != nil {
				return err
			}
			log.Info("built relative distributor", "size", d.Size(), "bits", d.NumBits(), "out", out)
		default:
			d, err := b.BuildHollow(bits.NewSliceIterator(vecs), int(bucket))
			if err != nil {
				return err
			}
			if err := mmphstore.SaveToFile(out, d); err != nil {
				return err
			}
			log.Info("built hollow distributor", "size", d.Size(), "bits", d.NumBits(), "out", out)
		}
		return nil
	},
}

var queryCommand = cli.Command{
	Name:  "query",
	Usage: "look up a key's bucket index in a persisted distributor",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "variant", Value: "hollow", Usage: "hollow or relative"},
		cli.StringFlag{Name: "in", Usage: "persisted distributor file"},
		cli.StringFlag{Name: "key", Usage: "key, as a raw string"},
	},
	Action: func(c *cli.Context) error {
		in := c.String("in")
		variant := mmphconfig.Variant(c.String("variant"))
		key := transform.String{}.ToBits(c.String("key"))

		mf, err := mmphstore.OpenMapped(in)
		if err != nil {
			return err
		}
		defer mf.Close()

		var bucket int64
		switch variant {
		case mmphconfig.VariantRelative:
			d, err := relative.Load[bits.Vector](mf, vectorIdentity{})
			if err != nil {
				return err
			}
			bucket = d.GetLong(key)
		default:
			bucket, err = queryHollow(mf, key)
			if err != nil {
				return err
			}
		}
		fmt.Println(bucket)
		return nil
	},
}

var statsCommand = cli.Command{
	Name:  "stats",
	Usage: "print a space breakdown for a persisted hollow distributor",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "in", Usage: "persisted distributor file"},
	},
	Action: func(c *cli.Context) error {
		in := c.String("in")
		mf, err := mmphstore.OpenMapped(in)
		if err != nil {
			return err
		}
		defer mf.Close()

		report, err := hollowMemReport(mf)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"component", "bits"})
		table.Append([]string{"topology (H)", fmt.Sprint(report.TopologyBits)})
		table.Append([]string{"skip list (sigma)", fmt.Sprint(report.SkipListBits)})
		table.Append([]string{"F_int", fmt.Sprint(report.FIntBits)})
		table.Append([]string{"F_ext", fmt.Sprint(report.FExtBits)})
		table.Append([]string{"bookkeeping", fmt.Sprint(report.BookkeepBits)})
		table.Append([]string{"total", fmt.Sprint(report.TotalBits)})
		table.Render()
		return nil
	},
}

var dumpConfigCommand = cli.Command{
	Name:  "dumpconfig",
	Usage: "print the effective configuration as TOML",
	Action: func(c *cli.Context) error {
		cfg := loadConfig(c)
		out, err := mmphconfig.Dump(&cfg)
		if err != nil {
			return err
		}
		os.Stdout.Write(out)
		return nil
	},
}

func queryHollow(r *mmphstore.MappedFile, key bits.Vector) (int64, error) {
	d, err := hollow.Load[bits.Vector](r, vectorIdentity{})
	if err != nil {
		return 0, err
	}
	return d.GetLong(key), nil
}

func hollowMemReport(r *mmphstore.MappedFile) (hollow.MemReport, error) {
	d, err := hollow.Load[bits.Vector](r, vectorIdentity{})
	if err != nil {
		return hollow.MemReport{}, err
	}
	return d.MemReport(), nil
}

// readKeys reads one raw string key per line from path, transforms
// each to a prefix-free bit vector via transform.String, and sorts the
// result: Builder's construction path expects its input stream
// already in strictly increasing order (§2) and fails fast otherwise.
func readKeys(path string) ([]bits.Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var vecs []bits.Vector
	strategy := transform.String{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		vecs = append(vecs, strategy.ToBits(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	sort.Slice(vecs, func(i, j int) bool { return vecs[i].Compare(vecs[j]) < 0 })
	return vecs, nil
}
