package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/orthomap/internal/config"
	"github.com/woozymasta/orthomap/internal/geo"
	"github.com/woozymasta/orthomap/internal/processor"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input     string `short:"i" long:"in" description:"Input file path (lat,lon[,kind] CSV or iZurvive JSON). Reads from stdin if empty"`
	Output    string `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Source    string `short:"s" long:"source" description:"Input format" choice:"csv" choice:"json" default:"csv"`
	Format    string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Kinds     string `short:"k" long:"kinds" description:"Keep only samples of these kinds, e.g. AP"`
	MultiType bool   `short:"m" long:"multi-type" description:"Read the kind from the third CSV column"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Read Input
	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	format := config.FormatCSV
	if opts.Source == "json" {
		format = config.FormatJSON
	}

	samples, err := processor.Decode(in, format, opts.MultiType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding input: %v\n", err)
		os.Exit(1)
	}
	samples = geo.FilterKinds(samples, opts.Kinds)

	fc := geo.NewFeatureCollection(len(samples))
	for _, s := range samples {
		fc.Features = append(fc.Features, geo.FeatureFromSample(s))
	}

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(fc)
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d samples to %s (format: %s)\n", len(samples), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}
