// Command genfixtures generates deterministic production fixtures for test
// suites and load tooling. It uses the actual simulation package so fixtures
// match service behavior exactly for a given seed.
//
// Usage:
//
//	go run ./cmd/genfixtures \
//	  -location NAIROBI -capacity 1000 \
//	  -start 2024-06-15 -days 7 -seed 42 \
//	  -out data/fixtures/nairobi_week.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/asiligreen/solar-sim/internal/simulate"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	capacity := flag.Float64("capacity", 10, "installation capacity in kW")
	location := flag.String("location", "NAIROBI", "installation location name")
	start := flag.String("start", "", "first simulated date (YYYY-MM-DD)")
	days := flag.Int("days", 1, "number of consecutive days to simulate")
	seed := flag.Int64("seed", 42, "simulation seed")
	model := flag.String("model", string(simulate.ModelDetailed), "geometry model (basic or detailed)")
	year := flag.Int("year", 2020, "installation year, for panel age effects")
	out := flag.String("out", "", "output path for the JSON fixture")
	flag.Parse()

	if *start == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -start, -out")
	}

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	m, err := simulate.ParseModel(*model)
	if err != nil {
		return err
	}
	params := simulate.DefaultParams()
	params.Model = m

	gen, err := simulate.NewGenerator(params, *seed)
	if err != nil {
		return err
	}

	readings, err := gen.GenerateDateRange(simulate.Request{
		CapacityKW:       *capacity,
		Location:         *location,
		Date:             startDate,
		InstallationYear: *year,
	}, *days)
	if err != nil {
		return err
	}

	if err := writeJSON(*out, readings); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d readings: %s", len(readings), *out)

	printStats(readings)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(readings []simulate.Reading) {
	conditions := map[simulate.Condition]int{}
	daily := map[string]float64{}
	var dayOrder []string
	var peak simulate.Reading

	for _, r := range readings {
		conditions[r.Weather]++
		day := r.Timestamp.UTC().Format("2006-01-02")
		if _, seen := daily[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		daily[day] += r.PowerKW
		if r.PowerKW > peak.PowerKW {
			peak = r
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total readings: %d\n", len(readings))
	fmt.Printf("Weather: sunny=%d, partly_cloudy=%d, cloudy=%d, rainy=%d\n",
		conditions[simulate.Sunny], conditions[simulate.PartlyCloudy],
		conditions[simulate.Cloudy], conditions[simulate.Rainy])

	fmt.Println("Daily energy (kWh):")
	for _, day := range dayOrder {
		fmt.Printf("  %s: %.2f\n", day, daily[day])
	}

	if peak.PowerKW > 0 {
		fmt.Printf("Peak: %.2f kW at %s (%s, elevation %.1f)\n",
			peak.PowerKW, peak.Timestamp.UTC().Format(time.RFC3339),
			peak.Weather, peak.SolarElevation)
	}
}
