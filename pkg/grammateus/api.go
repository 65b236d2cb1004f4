// Package grammateus is the embedding API for the grammatical evolution
// engine. It owns run orchestration, persistence, and on-disk artifacts;
// the CLI is a thin shell over this package.
package grammateus

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"grammateus/internal/evo"
	"grammateus/internal/grammar"
	"grammateus/internal/model"
	"grammateus/internal/scape"
	"grammateus/internal/stats"
	"grammateus/internal/storage"
)

const (
	defaultBenchmarksDir = "benchmarks"
	defaultExportsDir    = "exports"
	defaultDBPath        = "grammateus.db"
)

type Options struct {
	StoreKind     string
	DBPath        string
	BenchmarksDir string
	ExportsDir    string
}

type Client struct {
	store       storage.Store
	initialized bool

	benchmarksDir string
	exportsDir    string
}

type RunRequest struct {
	RunID                string
	Scape                string
	DatasetPath          string
	Population           int
	Generations          int
	MinGenomeLength      int
	MaxGenomeLength      int
	CodonRange           int
	TournamentSize       int
	CrossoverRate        float64
	MutationRate         float64
	EliteCount           int
	MaxDerivationSteps   int
	Selection            string
	FitnessPostprocessor string
	Seed                 int64
}

type RunSummary struct {
	RunID            string
	ArtifactsDir     string
	Scape            string
	Direction        string
	Seed             int64
	BestGenome       []int
	BestPhenotype    string
	BestFitness      float64
	BestByGeneration []float64
	Generations      []model.GenerationSummary
	Evaluations      int
}

type RunsRequest struct {
	Limit int
}

type FitnessHistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type GenerationsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type BestGenomeRequest struct {
	RunID  string
	Latest bool
}

type BestGenomeItem struct {
	RunID     string
	GenomeID  string
	Codons    []int
	Phenotype string
	Fitness   float64
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

type ScapeSummaryItem struct {
	Name        string
	Description string
	Direction   string
	BestFitness float64
}

type BenchmarkRequest struct {
	ID          string
	Runs        int
	Seed        int64
	TestSamples int
	Run         RunRequest
}

type BenchmarkSummary struct {
	ID            string
	Scape         string
	Direction     string
	Runs          int
	BestFitness   float64
	BestPhenotype string
	MeanBest      float64
	StdBest       float64
	MinBest       float64
	MaxBest       float64
	SummaryPath   string
	PerRun        []stats.ExperimentRun
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	benchmarksDir := opts.BenchmarksDir
	if benchmarksDir == "" {
		benchmarksDir = defaultBenchmarksDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:         store,
		benchmarksDir: benchmarksDir,
		exportsDir:    exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureInit(ctx)
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	applyRunDefaults(&req)

	sc, err := buildScape(req.Scape, req.DatasetPath)
	if err != nil {
		return RunSummary{}, err
	}
	direction, err := evo.ParseDirection(sc.Direction())
	if err != nil {
		return RunSummary{}, err
	}
	selector, err := evo.SelectorByName(req.Selection, req.TournamentSize, direction)
	if err != nil {
		return RunSummary{}, err
	}
	postprocessor, err := evo.PostprocessorByName(req.FitnessPostprocessor)
	if err != nil {
		return RunSummary{}, err
	}

	engine, err := evo.NewEngine(evo.Config{
		Scape:              sc,
		PopulationSize:     req.Population,
		Generations:        req.Generations,
		MinGenomeLength:    req.MinGenomeLength,
		MaxGenomeLength:    req.MaxGenomeLength,
		CodonRange:         req.CodonRange,
		TournamentSize:     req.TournamentSize,
		CrossoverRate:      req.CrossoverRate,
		MutationRate:       req.MutationRate,
		EliteCount:         req.EliteCount,
		MaxDerivationSteps: req.MaxDerivationSteps,
		Seed:               req.Seed,
		Selector:           selector,
		Postprocessor:      postprocessor,
	})
	if err != nil {
		return RunSummary{}, err
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	now := time.Now().UTC()
	runID := req.RunID
	if runID == "" {
		runID = fmt.Sprintf("%s-%d-%d", req.Scape, req.Seed, now.Unix())
	}

	if err := c.persistRun(ctx, runID, now, req, sc, direction, result); err != nil {
		return RunSummary{}, err
	}

	runDir, err := stats.WriteRunArtifacts(c.benchmarksDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:              runID,
			Scape:              req.Scape,
			DatasetPath:        req.DatasetPath,
			Direction:          string(direction),
			PopulationSize:     req.Population,
			Generations:        req.Generations,
			MinGenomeLength:    req.MinGenomeLength,
			MaxGenomeLength:    req.MaxGenomeLength,
			CodonRange:         req.CodonRange,
			TournamentSize:     req.TournamentSize,
			CrossoverRate:      req.CrossoverRate,
			MutationRate:       req.MutationRate,
			EliteCount:         req.EliteCount,
			MaxDerivationSteps: req.MaxDerivationSteps,
			Selection:          req.Selection,
			Postprocessor:      req.FitnessPostprocessor,
			Seed:               req.Seed,
		},
		BestByGeneration: result.BestByGeneration,
		Generations:      result.Generations,
		Best: stats.BestIndividual{
			GenomeID:  result.BestGenome.ID,
			Codons:    append([]int(nil), result.BestGenome.Codons...),
			Phenotype: result.BestPhenotype.Expression,
			Fitness:   result.BestFitness,
		},
		Evaluations: result.Evaluations,
	})
	if err != nil {
		return RunSummary{}, err
	}

	if err := stats.AppendRunIndex(c.benchmarksDir, stats.RunIndexEntry{
		RunID:            runID,
		Scape:            req.Scape,
		Direction:        string(direction),
		PopulationSize:   req.Population,
		Generations:      req.Generations,
		Seed:             req.Seed,
		EliteCount:       req.EliteCount,
		Postprocessor:    req.FitnessPostprocessor,
		FinalBestFitness: result.BestFitness,
		CreatedAtUTC:     now.Format(time.RFC3339Nano),
	}); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:            runID,
		ArtifactsDir:     filepath.Clean(runDir),
		Scape:            req.Scape,
		Direction:        string(direction),
		Seed:             req.Seed,
		BestGenome:       append([]int(nil), result.BestGenome.Codons...),
		BestPhenotype:    result.BestPhenotype.Expression,
		BestFitness:      result.BestFitness,
		BestByGeneration: append([]float64(nil), result.BestByGeneration...),
		Generations:      result.Generations,
		Evaluations:      result.Evaluations,
	}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.RunRecord, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if err := c.ensureInit(ctx); err != nil {
		return nil, err
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}
	return runs, nil
}

func (c *Client) FitnessHistory(ctx context.Context, req FitnessHistoryRequest) ([]float64, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}

	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return append([]float64(nil), history...), nil
}

func (c *Client) Generations(ctx context.Context, req GenerationsRequest) ([]model.GenerationSummary, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}

	summaries, ok, err := c.store.GetGenerationSummaries(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("generation summaries not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(summaries) > req.Limit {
		summaries = summaries[:req.Limit]
	}
	out := make([]model.GenerationSummary, len(summaries))
	copy(out, summaries)
	return out, nil
}

func (c *Client) BestGenome(ctx context.Context, req BestGenomeRequest) (BestGenomeItem, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return BestGenomeItem{}, err
	}

	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return BestGenomeItem{}, err
	}
	if !ok {
		return BestGenomeItem{}, fmt.Errorf("run not found: %s", runID)
	}

	genome, ok, err := c.store.GetGenome(ctx, run.BestGenomeID)
	if err != nil {
		return BestGenomeItem{}, err
	}
	if !ok {
		return BestGenomeItem{}, fmt.Errorf("best genome not found for run id: %s", runID)
	}

	return BestGenomeItem{
		RunID:     runID,
		GenomeID:  genome.ID,
		Codons:    append([]int(nil), genome.Codons...),
		Phenotype: run.BestPhenotype,
		Fitness:   run.BestFitness,
	}, nil
}

func (c *Client) ScapeSummary(ctx context.Context, scapeName string) (ScapeSummaryItem, error) {
	if scapeName == "" {
		return ScapeSummaryItem{}, errors.New("scape name is required")
	}
	if err := c.ensureInit(ctx); err != nil {
		return ScapeSummaryItem{}, err
	}

	summary, ok, err := c.store.GetScapeSummary(ctx, scapeName)
	if err != nil {
		return ScapeSummaryItem{}, err
	}
	if !ok {
		return ScapeSummaryItem{}, fmt.Errorf("scape summary not found: %s", scapeName)
	}
	return ScapeSummaryItem{
		Name:        summary.Name,
		Description: summary.Description,
		Direction:   summary.Direction,
		BestFitness: summary.BestFitness,
	}, nil
}

// Scapes lists the built-in problems, with the all-time best fitness where
// one has been recorded.
func (c *Client) Scapes(ctx context.Context) ([]ScapeSummaryItem, error) {
	if err := c.ensureInit(ctx); err != nil {
		return nil, err
	}

	out := make([]ScapeSummaryItem, 0, len(scape.Names()))
	for _, name := range scape.Names() {
		sc, err := scape.ByName(name)
		if err != nil {
			return nil, err
		}
		item := ScapeSummaryItem{
			Name:        sc.Name(),
			Description: sc.Description(),
			Direction:   sc.Direction(),
		}
		summary, ok, err := c.store.GetScapeSummary(ctx, name)
		if err != nil {
			return nil, err
		}
		if ok {
			item.BestFitness = summary.BestFitness
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	runID := req.RunID
	if req.Latest {
		entries, err := stats.ListRunIndex(c.benchmarksDir)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(entries) == 0 {
			return ExportSummary{}, errors.New("no runs available to export")
		}
		runID = entries[0].RunID
	}

	exportedDir, err := stats.ExportRunArtifacts(c.benchmarksDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

// Benchmark repeats a run configuration over consecutive seeds and writes
// an aggregate experiment summary. For the vladislavleva4 scape the champion
// of each run is re-scored on a held-out test range.
func (c *Client) Benchmark(ctx context.Context, req BenchmarkRequest) (BenchmarkSummary, error) {
	if req.Runs <= 0 {
		req.Runs = 5
	}
	if req.TestSamples <= 0 {
		req.TestSamples = 512
	}
	applyRunDefaults(&req.Run)

	startedAt := time.Now().UTC()
	id := req.ID
	if id == "" {
		id = fmt.Sprintf("bench-%s-%d", req.Run.Scape, startedAt.Unix())
	}

	direction := ""
	bests := make([]float64, 0, req.Runs)
	perRun := make([]stats.ExperimentRun, 0, req.Runs)
	var overall *RunSummary

	for i := 0; i < req.Runs; i++ {
		runReq := req.Run
		runReq.Seed = req.Seed + int64(i)
		runReq.RunID = fmt.Sprintf("%s-run-%d", id, i+1)

		summary, err := c.Run(ctx, runReq)
		if err != nil {
			return BenchmarkSummary{}, err
		}
		direction = summary.Direction

		entry := stats.ExperimentRun{
			RunID:         summary.RunID,
			Seed:          runReq.Seed,
			BestFitness:   summary.BestFitness,
			BestPhenotype: summary.BestPhenotype,
		}
		if req.Run.Scape == "vladislavleva4" {
			test, err := c.testFitness(ctx, summary.BestPhenotype, runReq.Seed, req.TestSamples)
			if err != nil {
				return BenchmarkSummary{}, err
			}
			entry.TestFitness = &test
		}
		perRun = append(perRun, entry)
		bests = append(bests, summary.BestFitness)

		if overall == nil {
			s := summary
			overall = &s
			continue
		}
		d, err := evo.ParseDirection(direction)
		if err != nil {
			return BenchmarkSummary{}, err
		}
		if d.Better(summary.BestFitness, overall.BestFitness) {
			s := summary
			overall = &s
		}
	}

	minBest, maxBest := bests[0], bests[0]
	for _, b := range bests[1:] {
		if b < minBest {
			minBest = b
		}
		if b > maxBest {
			maxBest = b
		}
	}

	summary := stats.ExperimentSummary{
		ID:             id,
		Scape:          req.Run.Scape,
		Direction:      direction,
		Runs:           req.Runs,
		StartedAtUTC:   startedAt.Format(time.RFC3339Nano),
		CompletedAtUTC: time.Now().UTC().Format(time.RFC3339Nano),
		BestFitness:    overall.BestFitness,
		BestPhenotype:  overall.BestPhenotype,
		MeanBest:       stats.Mean(bests),
		StdBest:        stats.StdDev(bests),
		MinBest:        minBest,
		MaxBest:        maxBest,
		PerRun:         perRun,
	}
	path, err := stats.WriteExperimentSummary(c.benchmarksDir, summary)
	if err != nil {
		return BenchmarkSummary{}, err
	}

	return BenchmarkSummary{
		ID:            id,
		Scape:         summary.Scape,
		Direction:     summary.Direction,
		Runs:          summary.Runs,
		BestFitness:   summary.BestFitness,
		BestPhenotype: summary.BestPhenotype,
		MeanBest:      summary.MeanBest,
		StdBest:       summary.StdBest,
		MinBest:       summary.MinBest,
		MaxBest:       summary.MaxBest,
		SummaryPath:   filepath.Clean(path),
		PerRun:        perRun,
	}, nil
}

func (c *Client) persistRun(ctx context.Context, runID string, now time.Time, req RunRequest, sc scape.Scape, direction evo.Direction, result evo.RunResult) error {
	if err := c.ensureInit(ctx); err != nil {
		return err
	}

	versions := model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}

	bestGenome := result.BestGenome.Clone()
	bestGenome.VersionedRecord = versions
	if err := c.store.SaveGenome(ctx, bestGenome); err != nil {
		return err
	}

	if err := c.store.SaveRun(ctx, model.RunRecord{
		VersionedRecord: versions,
		ID:              runID,
		CreatedAtUTC:    now.Format(time.RFC3339Nano),
		Scape:           req.Scape,
		Seed:            req.Seed,
		PopulationSize:  req.Population,
		Generations:     req.Generations,
		Direction:       string(direction),
		BestFitness:     result.BestFitness,
		BestPhenotype:   result.BestPhenotype.Expression,
		BestGenomeID:    bestGenome.ID,
		Evaluations:     result.Evaluations,
	}); err != nil {
		return err
	}

	if err := c.store.SaveFitnessHistory(ctx, runID, result.BestByGeneration); err != nil {
		return err
	}
	if err := c.store.SaveGenerationSummaries(ctx, runID, result.Generations); err != nil {
		return err
	}

	// All-time best per scape, ratcheted: only a strictly better run
	// replaces the stored record.
	existing, ok, err := c.store.GetScapeSummary(ctx, req.Scape)
	if err != nil {
		return err
	}
	if !ok || direction.Better(result.BestFitness, existing.BestFitness) {
		return c.store.SaveScapeSummary(ctx, model.ScapeSummary{
			VersionedRecord: versions,
			Name:            sc.Name(),
			Description:     sc.Description(),
			Direction:       string(direction),
			BestFitness:     result.BestFitness,
		})
	}
	return nil
}

func (c *Client) testFitness(ctx context.Context, phenotype string, seed int64, samples int) (float64, error) {
	if phenotype == "" {
		return 0, errors.New("no phenotype to test")
	}
	// Test range extends past the training range on both sides.
	rng := rand.New(rand.NewSource(seed + 5000))
	testScape := scape.NewVladislavleva4Scape(scape.GenerateVladislavleva4(rng, samples, -0.25, 6.35))
	fitness, err := testScape.Evaluate(ctx, phenotype)
	if err != nil {
		return 0, err
	}
	return float64(fitness), nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if err := c.ensureInit(ctx); err != nil {
		return "", err
	}
	if latest {
		runs, err := c.store.ListRuns(ctx)
		if err != nil {
			return "", err
		}
		if len(runs) == 0 {
			return "", errors.New("no runs available")
		}
		return runs[0].ID, nil
	}
	if runID == "" {
		return "", errors.New("run id or latest is required")
	}
	return runID, nil
}

func (c *Client) ensureInit(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func applyRunDefaults(req *RunRequest) {
	if req.Scape == "" {
		req.Scape = "parity"
	}
	if req.Population <= 0 {
		req.Population = 50
	}
	if req.Generations <= 0 {
		req.Generations = 100
	}
	if req.MinGenomeLength <= 0 {
		req.MinGenomeLength = 10
	}
	if req.MaxGenomeLength <= 0 {
		req.MaxGenomeLength = 30
	}
	if req.CodonRange <= 0 {
		req.CodonRange = 256
	}
	if req.TournamentSize <= 0 {
		req.TournamentSize = 3
	}
	if req.CrossoverRate <= 0 {
		req.CrossoverRate = 0.9
	}
	if req.MutationRate <= 0 {
		req.MutationRate = 0.1
	}
	if req.EliteCount <= 0 {
		req.EliteCount = req.Population / 10
		if req.EliteCount < 1 {
			req.EliteCount = 1
		}
	}
	if req.MaxDerivationSteps <= 0 {
		req.MaxDerivationSteps = grammar.DefaultMaxSteps
	}
	if req.Selection == "" {
		req.Selection = "tournament"
	}
	if req.FitnessPostprocessor == "" {
		req.FitnessPostprocessor = "none"
	}
}

func buildScape(name, datasetPath string) (scape.Scape, error) {
	if datasetPath == "" {
		return scape.ByName(name)
	}

	data, err := scape.LoadDatasetCSV(datasetPath)
	if err != nil {
		return nil, err
	}
	switch name {
	case "regression":
		return scape.NewRegressionScape(data), nil
	case "vladislavleva4":
		return scape.NewVladislavleva4Scape(data), nil
	default:
		return nil, fmt.Errorf("scape %s does not take a dataset", name)
	}
}
