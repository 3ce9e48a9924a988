// Package main provides the born-data CLI for fetching and inspecting datasets.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/disintegration/imaging"

	"github.com/born-ml/datasets/data"
	"github.com/born-ml/datasets/internal/dataset"
	"github.com/born-ml/datasets/internal/fashion"
	"github.com/born-ml/datasets/internal/transform"
)

const version = "v0.1.0-dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "born-data: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "born-data %s\n", version)
		return nil
	case "inspect":
		return inspect(args[1:], stdout, stderr)
	case "export":
		return export(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "born-data - Fashion-MNIST loader")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  inspect    Download a split and iterate it once")
	fmt.Fprintln(w, "  export     Write one sample as an image file")
}

func inspect(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	root := fs.String("root", data.DefaultRoot, "Dataset storage root")
	train := fs.Bool("train", true, "Use training split (60K samples) vs test split (10K samples)")
	batchSize := fs.Int("batch", 64, "Batch size")
	shuffle := fs.Bool("shuffle", false, "Shuffle samples")
	seed := fs.Uint64("seed", 0, "Shuffle seed")
	stats := fs.Bool("stats", false, "Print pixel mean and standard deviation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	split := dataset.SplitOf(*train)
	ds, err := fashion.New(context.Background(), fashion.Config{
		Root:     *root,
		Split:    split,
		Download: true,
		Progress: stderr,
	})
	if err != nil {
		return err
	}

	src := data.NewSource(data.SourceConfig{Shuffle: *shuffle, Seed: *seed})
	loader, err := src.Batch(ds, *batchSize)
	if err != nil {
		return err
	}

	start := time.Now()
	var samples int
	var histogram [fashion.NumClasses]int
	for batch, err := range loader.All() {
		if err != nil {
			return err
		}
		samples += batch.Size
		for _, l := range batch.Labels.AsInt64() {
			histogram[l]++
		}
	}

	expected := fashion.TrainSize
	if split == dataset.Test {
		expected = fashion.TestSize
	}
	fmt.Fprintf(stdout, "split:    %s\n", split)
	fmt.Fprintf(stdout, "samples:  %d (published %d)\n", samples, expected)
	fmt.Fprintf(stdout, "batches:  %d (size %d)\n", loader.Len(), *batchSize)
	fmt.Fprintf(stdout, "elapsed:  %s\n", time.Since(start).Round(time.Millisecond))
	for c, n := range histogram {
		fmt.Fprintf(stdout, "  %d %-12s %d\n", c, fashion.Classes[c], n)
	}

	if *stats {
		mean, std := transform.Stats(ds.Pixels())
		fmt.Fprintf(stdout, "mean:     %.4f\nstd:      %.4f\n", mean, std)
	}
	return nil
}

func export(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	root := fs.String("root", data.DefaultRoot, "Dataset storage root")
	train := fs.Bool("train", true, "Use training split")
	index := fs.Int("index", 0, "Sample index")
	scale := fs.Int("scale", 4, "Upscaling factor")
	out := fs.String("out", "sample.png", "Output file (format from extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ds, err := fashion.New(context.Background(), fashion.Config{
		Root:     *root,
		Split:    dataset.SplitOf(*train),
		Download: true,
		Progress: stderr,
	})
	if err != nil {
		return err
	}
	if *scale <= 0 {
		return fmt.Errorf("scale must be positive, got %d", *scale)
	}
	if err := dataset.CheckIndex(*index, ds.Len()); err != nil {
		return err
	}

	img := imaging.Resize(ds.Image(*index), fashion.Cols*(*scale), fashion.Rows*(*scale), imaging.NearestNeighbor)
	if err := imaging.Save(img, *out); err != nil {
		return fmt.Errorf("failed to save %s: %w", *out, err)
	}
	fmt.Fprintf(stdout, "%s: sample %d (%s) -> %s\n", dataset.SplitOf(*train), *index, fashion.Classes[ds.Label(*index)], *out)
	return nil
}
