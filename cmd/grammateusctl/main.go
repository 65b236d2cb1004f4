package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"grammateus/internal/grammar"
	"grammateus/internal/scape"
	"grammateus/internal/stats"
	"grammateus/internal/storage"
	geapi "grammateus/pkg/grammateus"
)

const (
	benchmarksDir = "benchmarks"
	exportsDir    = "exports"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "benchmark":
		return runBenchmark(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "generations":
		return runGenerations(ctx, args[1:])
	case "best":
		return runBest(ctx, args[1:])
	case "scape-summary":
		return runScapeSummary(ctx, args[1:])
	case "scapes":
		return runScapes(ctx, args[1:])
	case "grammar":
		return runGrammar(ctx, args[1:])
	case "dataset":
		return runDataset(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: grammateusctl <init|run|benchmark|runs|fitness|generations|best|scape-summary|scapes|grammar|dataset|export> [flags]", msg)
}

func newClient(storeKind, dbPath string) (*geapi.Client, error) {
	return geapi.New(geapi.Options{
		StoreKind:     storeKind,
		DBPath:        dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "grammateus.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path (map2rec-backed)")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	scapeName := fs.String("scape", "parity", "scape name: parity|regression|vladislavleva4")
	datasetPath := fs.String("dataset", "", "CSV dataset path for regression scapes (optional)")
	population := fs.Int("pop", 50, "population size")
	generations := fs.Int("gens", 100, "generation count")
	minLength := fs.Int("min-length", 10, "minimum initial genome length in codons")
	maxLength := fs.Int("max-length", 30, "maximum initial genome length in codons")
	codonRange := fs.Int("codon-range", 256, "exclusive upper bound for codon values")
	tournamentSize := fs.Int("tournament", 3, "tournament size for parent selection")
	crossoverRate := fs.Float64("crossover-rate", 0.9, "one-point crossover probability per pair")
	mutationRate := fs.Float64("mutation-rate", 0.1, "point mutation probability per child")
	eliteCount := fs.Int("elites", 0, "elite count carried over unmodified (0 derives from population)")
	maxSteps := fs.Int("max-steps", grammar.DefaultMaxSteps, "derivation step cap before a genome is marked invalid")
	selectionName := fs.String("selection", "tournament", "parent selection strategy: tournament")
	postprocessorName := fs.String("fitness-postprocessor", "none", "fitness postprocessor: none|size_proportional")
	seed := fs.Int64("seed", 1, "rng seed")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "grammateus.db", "sqlite database path")
	quiet := fs.Bool("quiet", false, "suppress per-generation output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	if *configPath == "" {
		req = geapi.RunRequest{
			RunID:                *runID,
			Scape:                *scapeName,
			DatasetPath:          *datasetPath,
			Population:           *population,
			Generations:          *generations,
			MinGenomeLength:      *minLength,
			MaxGenomeLength:      *maxLength,
			CodonRange:           *codonRange,
			TournamentSize:       *tournamentSize,
			CrossoverRate:        *crossoverRate,
			MutationRate:         *mutationRate,
			EliteCount:           *eliteCount,
			MaxDerivationSteps:   *maxSteps,
			Selection:            *selectionName,
			FitnessPostprocessor: *postprocessorName,
			Seed:                 *seed,
		}
	} else {
		overrideFromFlags(&req, setFlags, map[string]any{
			"run-id":                *runID,
			"scape":                 *scapeName,
			"dataset":               *datasetPath,
			"pop":                   *population,
			"gens":                  *generations,
			"min-length":            *minLength,
			"max-length":            *maxLength,
			"codon-range":           *codonRange,
			"tournament":            *tournamentSize,
			"crossover-rate":        *crossoverRate,
			"mutation-rate":         *mutationRate,
			"elites":                *eliteCount,
			"max-steps":             *maxSteps,
			"selection":             *selectionName,
			"fitness-postprocessor": *postprocessorName,
			"seed":                  *seed,
		})
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run completed run_id=%s scape=%s direction=%s seed=%d\n", summary.RunID, summary.Scape, summary.Direction, summary.Seed)
	if !*quiet {
		for _, gen := range summary.Generations {
			fmt.Printf("generation=%d best_fitness=%.6f mean_fitness=%.6f invalid=%d\n", gen.Generation, gen.BestFitness, gen.MeanFitness, gen.InvalidCount)
		}
	}
	printRunSummary(summary)
	fmt.Printf("artifacts_dir=%s\n", filepath.Clean(summary.ArtifactsDir))
	return nil
}

func printRunSummary(summary geapi.RunSummary) {
	pterm.Info.Println(fmt.Sprintf("best fitness %.6f over %s evaluations", summary.BestFitness, humanize.Comma(int64(summary.Evaluations))))
	pterm.Success.Println(fmt.Sprintf("phenotype: %s", summary.BestPhenotype))
}

func runBenchmark(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	id := fs.String("id", "", "experiment id (optional)")
	scapeName := fs.String("scape", "parity", "scape name: parity|regression|vladislavleva4")
	datasetPath := fs.String("dataset", "", "CSV dataset path for regression scapes (optional)")
	runs := fs.Int("runs", 5, "number of runs over consecutive seeds")
	seed := fs.Int64("seed", 1, "base rng seed")
	population := fs.Int("pop", 50, "population size")
	generations := fs.Int("gens", 100, "generation count")
	testSamples := fs.Int("test-samples", 512, "held-out test samples (vladislavleva4 only)")
	selectionName := fs.String("selection", "tournament", "parent selection strategy: tournament")
	postprocessorName := fs.String("fitness-postprocessor", "none", "fitness postprocessor: none|size_proportional")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "grammateus.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Benchmark(ctx, geapi.BenchmarkRequest{
		ID:          *id,
		Runs:        *runs,
		Seed:        *seed,
		TestSamples: *testSamples,
		Run: geapi.RunRequest{
			Scape:                *scapeName,
			DatasetPath:          *datasetPath,
			Population:           *population,
			Generations:          *generations,
			Selection:            *selectionName,
			FitnessPostprocessor: *postprocessorName,
		},
	})
	if err != nil {
		return err
	}

	for _, run := range summary.PerRun {
		if run.TestFitness != nil {
			fmt.Printf("run_id=%s seed=%d best_fitness=%.6f test_fitness=%.6f\n", run.RunID, run.Seed, run.BestFitness, *run.TestFitness)
			continue
		}
		fmt.Printf("run_id=%s seed=%d best_fitness=%.6f\n", run.RunID, run.Seed, run.BestFitness)
	}
	fmt.Printf("experiment=%s scape=%s runs=%d mean_best=%.6f std_best=%.6f min_best=%.6f max_best=%.6f\n",
		summary.ID, summary.Scape, summary.Runs, summary.MeanBest, summary.StdBest, summary.MinBest, summary.MaxBest)
	pterm.Info.Println(fmt.Sprintf("best of %s runs: %.6f", humanize.Comma(int64(summary.Runs)), summary.BestFitness))
	pterm.Success.Println(fmt.Sprintf("phenotype: %s", summary.BestPhenotype))
	fmt.Printf("summary_path=%s\n", summary.SummaryPath)
	return nil
}

func runRuns(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	entries, err := stats.ListRunIndex(benchmarksDir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(entries) > *limit {
		entries = entries[:*limit]
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		fmt.Printf("run_id=%s created_at=%s scape=%s direction=%s seed=%d pop=%d gens=%d final_best_fitness=%.6f\n",
			e.RunID,
			e.CreatedAtUTC,
			e.Scape,
			e.Direction,
			e.Seed,
			e.PopulationSize,
			e.Generations,
			e.FinalBestFitness,
		)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show fitness history for the most recent run")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit fitness history as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "grammateus.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, geapi.FitnessHistoryRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}
	for i, best := range history {
		fmt.Printf("generation=%d best_fitness=%.6f\n", i+1, best)
	}
	return nil
}

func runGenerations(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generations", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show generation summaries for the most recent run")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit generation summaries as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "grammateus.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summaries, err := client.Generations(ctx, geapi.GenerationsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}
	for _, gen := range summaries {
		fmt.Printf("generation=%d best_fitness=%.6f mean_fitness=%.6f worst_fitness=%.6f invalid=%d best_phenotype=%q\n",
			gen.Generation,
			gen.BestFitness,
			gen.MeanFitness,
			gen.WorstFitness,
			gen.InvalidCount,
			gen.BestPhenotype,
		)
	}
	return nil
}

func runBest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("best", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show the champion of the most recent run")
	jsonOut := fs.Bool("json", false, "emit the champion as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "grammateus.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	best, err := client.BestGenome(ctx, geapi.BestGenomeRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(best)
	}
	fmt.Printf("run_id=%s genome_id=%s fitness=%.6f codons=%v\n", best.RunID, best.GenomeID, best.Fitness, best.Codons)
	fmt.Printf("phenotype=%s\n", best.Phenotype)
	return nil
}

func runScapeSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scape-summary", flag.ContinueOnError)
	scapeName := fs.String("scape", "", "scape name")
	jsonOut := fs.Bool("json", false, "emit summary as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "grammateus.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.ScapeSummary(ctx, *scapeName)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Printf("scape=%s direction=%s best_fitness=%.6f description=%q\n", summary.Name, summary.Direction, summary.BestFitness, summary.Description)
	return nil
}

func runScapes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scapes", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "emit scape list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "grammateus.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Scapes(ctx)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	for _, item := range items {
		fmt.Printf("scape=%s direction=%s best_fitness=%.6f description=%q\n", item.Name, item.Direction, item.BestFitness, item.Description)
	}
	return nil
}

func runGrammar(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("grammar", flag.ContinueOnError)
	scapeName := fs.String("scape", "", "print the grammar of a built-in scape")
	bnfPath := fs.String("file", "", "print a grammar loaded from a BNF file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*scapeName == "") == (*bnfPath == "") {
		return errors.New("grammar requires exactly one of --scape or --file")
	}

	var g *grammar.Grammar
	if *bnfPath != "" {
		loaded, err := grammar.LoadBNF(*bnfPath)
		if err != nil {
			return err
		}
		g = loaded
	} else {
		sc, err := scape.ByName(*scapeName)
		if err != nil {
			return err
		}
		g = sc.Grammar()
	}

	fmt.Printf("start=%s non_terminals=%d\n", g.Start(), len(g.NonTerminals()))
	for _, symbol := range g.NonTerminals() {
		productions, _ := g.Productions(symbol)
		fmt.Printf("symbol=%s productions=%d recursive=%t\n", symbol, len(productions), g.IsRecursive(symbol))
		for i, production := range productions {
			fmt.Printf("  choice=%d arity=%d rhs=%q\n", i, g.Arity(production), production.String())
		}
	}
	return nil
}

func runDataset(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("dataset", flag.ContinueOnError)
	samples := fs.Int("samples", 1024, "sample count")
	lo := fs.Float64("lo", 0.05, "inclusive lower bound of each input variable")
	hi := fs.Float64("hi", 6.05, "inclusive upper bound of each input variable")
	seed := fs.Int64("seed", 1, "rng seed")
	out := fs.String("out", "vladislavleva4.csv", "output CSV path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *samples <= 0 {
		return errors.New("samples must be > 0")
	}
	if *hi <= *lo {
		return errors.New("hi must be > lo")
	}

	data := scape.GenerateVladislavleva4(rand.New(rand.NewSource(*seed)), *samples, *lo, *hi)
	if err := data.SaveCSV(*out); err != nil {
		return err
	}
	fmt.Printf("dataset written samples=%s path=%s\n", humanize.Comma(int64(*samples)), *out)
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", "", "output directory (defaults to exports/)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "grammateus.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	exported, err := client.Export(ctx, geapi.ExportRequest{
		RunID:  *runID,
		Latest: *latest,
		OutDir: *outDir,
	})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s dir=%s\n", exported.RunID, exported.Directory)
	return nil
}
