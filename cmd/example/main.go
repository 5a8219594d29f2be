// Command example looks up the area codes of a few well known cities.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	areacodes "github.com/paulstuart/go-areacodes"
	"github.com/paulstuart/go-areacodes/internal/logger"
)

type location struct {
	lat, lon float64
	name     string
}

var locations = []location{
	{40.7128, -74.0060, "New York City, NY"},
	{34.0522, -118.2437, "Los Angeles, CA"},
	{41.8781, -87.6298, "Chicago, IL"},
	{29.7604, -95.3698, "Houston, TX"},
	{33.4484, -112.0740, "Phoenix, AZ"},
}

func main() {
	_ = godotenv.Load()
	logger.Setup()

	data := flag.String("data", "", "area code data file (default $"+areacodes.DataSourceEnv+" or "+areacodes.AreaCodeGOBFile+")")
	flag.Parse()
	if *data != "" {
		areacodes.SetDataSource(*data)
	}

	if err := run(os.Stdout); err != nil {
		os.Exit(1)
	}
}

func run(w io.Writer) error {
	if _, err := areacodes.Default(); err != nil {
		if errors.Is(err, areacodes.ErrDataNotFound) {
			fmt.Fprintln(w, "Error: area code data file not found.")
			fmt.Fprintf(w, "Run cmd/prepare to build %s, or set %s.\n", areacodes.AreaCodeGOBFile, areacodes.DataSourceEnv)
		} else {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
		return err
	}

	fmt.Fprintln(w, "Area Code Lookup Examples:")
	fmt.Fprintln(w, strings.Repeat("=", 40))

	for _, loc := range locations {
		codes, err := areacodes.Lookup(loc.lat, loc.lon, true)
		if err != nil {
			fmt.Fprintf(w, "%s: Error - %v\n", loc.name, err)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", loc.name, strings.Join(codes, ", "))
	}
	return nil
}
