package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"world-travel-router/internal/config"
	"world-travel-router/internal/database"
	"world-travel-router/internal/distance"
	"world-travel-router/internal/journey"
	"world-travel-router/internal/models"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("journey", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	dataPath := fs.String("data", "", "path to the world cities CSV")
	city := fs.String("city", "", "start city")
	country := fs.String("country", "", "start country")
	days := fs.Float64("days", 0, "maximum days for the trip")
	strategy := fs.String("strategy", "", "search strategy: greedy or backtracking")
	asJSON := fs.Bool("json", false, "print the journey as JSON")
	storePath := fs.String("store", "", "JSON file keeping the journey history (default ~/.world-travel-router/journeys.json)")
	history := fs.Int("history", 0, "print the last N recorded journeys and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *dataPath != "" {
		cfg.Dataset.Path = *dataPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if *storePath == "" {
		p, err := database.GetJSONStorePath()
		if err != nil {
			return err
		}
		*storePath = p
	}
	store, err := database.NewJSONStore(*storePath)
	if err != nil {
		return fmt.Errorf("failed to open journey store: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	planner := journey.NewPlanner(store, distance.NewGreatCircleCalculator(), journey.OptionsFromConfig(cfg))

	if *history > 0 {
		summaries, total, err := planner.History(ctx, *history, 0)
		if err != nil {
			return err
		}
		printHistory(out, summaries, total)
		return nil
	}

	if err := planner.Load(ctx); err != nil {
		return fmt.Errorf("failed to load cities: %w", err)
	}

	j, err := planner.Plan(ctx, journey.Request{
		StartCity:    *city,
		StartCountry: *country,
		MaxDays:      *days,
		Strategy:     *strategy,
	})
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(j)
	}
	printJourney(out, j)
	return nil
}

func printJourney(out io.Writer, j *models.Journey) {
	if !j.Complete {
		fmt.Fprintf(out, "No circumnavigation from %s (%s) within %v days: %s\n",
			j.StartCity, j.StartCountry, j.MaxDays, j.Reason)
		return
	}

	for _, h := range j.Hops {
		fmt.Fprintf(out, "from %s to %s took %d hours\n", h.From, h.To, h.Hours)
	}
	fmt.Fprintf(out, "Route: %s\n", strings.Join(j.Route, " -> "))
	fmt.Fprintf(out, "Total: %d hours (%.2f days) with %s search\n", j.TotalHours, j.TotalDays, j.Strategy)
}

func printHistory(out io.Writer, summaries []models.JourneySummary, total int) {
	fmt.Fprintf(out, "%d of %d recorded journeys\n", len(summaries), total)
	for _, s := range summaries {
		result := fmt.Sprintf("%.2f days, %d cities", s.TotalDays, s.CitiesCount)
		if !s.Complete {
			result = string(s.Reason)
		}
		fmt.Fprintf(out, "%s  %s  %s (%s) %s: %s\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.ID, s.StartCity, s.StartCountry, s.Strategy, result)
	}
}
