package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"birdsim/internal/ga"
)

// Logger handles all training output
type Logger struct {
	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	console     io.Writer
	initialized bool
}

// NewLogger creates a new logger
func NewLogger(csvPath, jsonPath string) (*Logger, error) {
	l := &Logger{
		csvPath:  csvPath,
		jsonPath: jsonPath,
		console:  os.Stdout,
	}

	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	return l, nil
}

// SetConsole redirects the per-generation console line.
func (l *Logger) SetConsole(w io.Writer) {
	l.console = w
}

// Init initializes the log files
func (l *Logger) Init() error {
	var err error

	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	header := []string{
		"generation", "ticks", "min_fitness", "max_fitness", "avg_fitness", "median_fitness", "elapsed_ms",
	}
	if err := l.csvWriter.Write(header); err != nil {
		return err
	}

	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	l.initialized = true
	return nil
}

// Close closes all log files
func (l *Logger) Close() {
	if l.csvWriter != nil {
		l.csvWriter.Flush()
	}
	if l.csvFile != nil {
		l.csvFile.Close()
	}
	if l.jsonFile != nil {
		l.jsonFile.Close()
	}
}

// GenerationSummary holds per-generation statistics
type GenerationSummary struct {
	Generation int           `json:"generation"`
	Ticks      int           `json:"ticks"`
	Stats      ga.Statistics `json:"stats"`
	ElapsedMS  int64         `json:"elapsed_ms"`
}

// NewGenerationSummary builds a summary for a finished generation.
func NewGenerationSummary(gen, ticks int, stats ga.Statistics, elapsed time.Duration) GenerationSummary {
	return GenerationSummary{
		Generation: gen,
		Ticks:      ticks,
		Stats:      stats,
		ElapsedMS:  elapsed.Milliseconds(),
	}
}

// LogGeneration writes a summary to CSV, JSONL and the console.
func (l *Logger) LogGeneration(summary GenerationSummary) error {
	if !l.initialized {
		return nil
	}

	row := []string{
		strconv.Itoa(summary.Generation),
		strconv.Itoa(summary.Ticks),
		fmt.Sprintf("%.2f", summary.Stats.MinFitness),
		fmt.Sprintf("%.2f", summary.Stats.MaxFitness),
		fmt.Sprintf("%.2f", summary.Stats.AvgFitness),
		fmt.Sprintf("%.2f", summary.Stats.MedianFitness),
		strconv.FormatInt(summary.ElapsedMS, 10),
	}
	if err := l.csvWriter.Write(row); err != nil {
		return err
	}
	l.csvWriter.Flush()
	if err := l.csvWriter.Error(); err != nil {
		return err
	}

	jsonLine, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if _, err := l.jsonFile.Write(append(jsonLine, '\n')); err != nil {
		return err
	}

	fmt.Fprintf(l.console, "Gen %4d | %s | %dms\n", summary.Generation, summary.Stats, summary.ElapsedMS)
	return nil
}

// ReadSummaries loads every summary from a JSONL file
func ReadSummaries(path string) ([]GenerationSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []GenerationSummary
	dec := json.NewDecoder(f)
	for {
		var s GenerationSummary
		if err := dec.Decode(&s); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		out = append(out, s)
	}
	return out, nil
}
