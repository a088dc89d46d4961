package rules

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultSwiplTimeout bounds a single SWI-Prolog invocation. A timeout is
// treated as "evaluator unavailable" for that call, never a crash, and no
// retry is performed.
const DefaultSwiplTimeout = 10 * time.Second

// SwiplEvaluator shells out to SWI-Prolog to evaluate an externally
// maintained rule file. It follows the http.Client pattern: create once,
// use many times. Every call writes its own fact and query files, so one
// evaluator can serve concurrent requests.
type SwiplEvaluator struct {
	// SwiplPath is the path to the swipl binary. Empty means auto-detect.
	SwiplPath string

	// RulesFile is the Prolog rule file defining the category predicates
	// and car_strengths/2.
	RulesFile string

	// Timeout is the per-invocation timeout. Zero means DefaultSwiplTimeout.
	Timeout time.Duration

	mu      sync.Mutex
	workDir string // lazily created scratch dir for fact and query files
}

// swiplSearchPaths are tried in order when SwiplPath is not set.
var swiplSearchPaths = []string{
	"swipl",
	"/opt/homebrew/bin/swipl",
	"/usr/local/bin/swipl",
	"/usr/bin/swipl",
}

// NewSwiplEvaluator creates an evaluator for the given rule file.
// Returns an error if no swipl binary can be found; callers should fall
// back to the embedded Engine.
func NewSwiplEvaluator(rulesFile string) (*SwiplEvaluator, error) {
	path, err := findSwipl()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(rulesFile); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", rulesFile, err)
	}
	return &SwiplEvaluator{SwiplPath: path, RulesFile: rulesFile}, nil
}

func findSwipl() (string, error) {
	for _, candidate := range swiplSearchPaths {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("swipl binary not found")
}

func (s *SwiplEvaluator) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultSwiplTimeout
}

// ensureWorkDir creates the scratch directory on first use.
func (s *SwiplEvaluator) ensureWorkDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workDir == "" {
		dir, err := os.MkdirTemp("", "carscout-prolog-")
		if err != nil {
			return "", fmt.Errorf("create work dir: %w", err)
		}
		s.workDir = dir
	}
	return s.workDir, nil
}

// Classify writes the fact set to a call-local Prolog facts file, then
// queries each category predicate in turn. Any subprocess failure makes the
// whole call unavailable.
func (s *SwiplEvaluator) Classify(ctx context.Context, facts []Fact) (map[string][]Fact, error) {
	factsFile, err := s.writeFacts(facts)
	if err != nil {
		return nil, err
	}
	defer os.Remove(factsFile)

	factIndex := make(map[string][]Fact, len(facts))
	for _, f := range facts {
		factIndex[f.Key()] = append(factIndex[f.Key()], f)
	}

	categories := []string{
		"excellent_choice",
		"good_value",
		"family_car",
		"reliable_commuter",
		"budget_pick",
	}

	results := make(map[string][]Fact)
	for _, cat := range categories {
		matched, err := s.queryCategory(ctx, factsFile, factIndex, cat)
		if err != nil {
			return nil, fmt.Errorf("query category %s: %w", cat, err)
		}
		if len(matched) > 0 {
			results[cat] = matched
		}
	}
	return results, nil
}

// writeFacts generates a car/7 facts file unique to this call.
func (s *SwiplEvaluator) writeFacts(facts []Fact) (string, error) {
	dir, err := s.ensureWorkDir()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("% Generated car facts - don't edit manually\n")
	b.WriteString(":- discontiguous car/7.\n\n")
	for _, f := range facts {
		fmt.Fprintf(&b, "car('%s', '%s', %d, %g, %g, %g, %g).\n",
			prologAtom(f.Make), prologAtom(f.Model),
			f.Year, f.Price, f.Safety, f.Reliability, f.Mileage)
	}

	tmp, err := os.CreateTemp(dir, "car_facts-*.pl")
	if err != nil {
		return "", fmt.Errorf("create facts file: %w", err)
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write facts file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close facts file: %w", err)
	}
	return tmp.Name(), nil
}

// prologAtom strips quote characters that would break a quoted atom.
func prologAtom(v string) string {
	return strings.ReplaceAll(strings.ToUpper(v), "'", "")
}

// queryCategory runs a generated goal script asking for every car matching
// one category predicate and parses the RESULT| lines it prints.
func (s *SwiplEvaluator) queryCategory(ctx context.Context, factsFile string, factIndex map[string][]Fact, predicate string) ([]Fact, error) {
	script := fmt.Sprintf(`:- ['%s'].
:- ['%s'].

run :-
    car(Make, Model, Year, Price, Safety, Rel, Miles),
    Car = car(Make, Model, Year, Price, Safety, Rel, Miles),
    %s(Car),
    format('RESULT|~w|~w|~w~n', [Make, Model, Year]),
    fail.
run.

:- run, halt.
`, absOrSelf(s.RulesFile), factsFile, predicate)

	output, err := s.runScript(ctx, script)
	if err != nil {
		return nil, err
	}

	var matched []Fact
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "RESULT|") {
			continue
		}
		parts := strings.Split(strings.TrimPrefix(line, "RESULT|"), "|")
		if len(parts) != 3 {
			continue
		}
		year, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		key := fmt.Sprintf("%s|%s|%d", parts[0], parts[1], year)
		matched = append(matched, factIndex[key]...)
	}
	return matched, nil
}

// Strengths queries car_strengths/2 for a single fact, written to its own
// call-local facts file.
func (s *SwiplEvaluator) Strengths(ctx context.Context, f Fact) ([]string, error) {
	factsFile, err := s.writeFacts([]Fact{f})
	if err != nil {
		return nil, err
	}
	defer os.Remove(factsFile)

	script := fmt.Sprintf(`:- ['%s'].
:- ['%s'].

run :-
    car(Make, Model, Year, Price, Safety, Rel, Miles),
    Car = car(Make, Model, Year, Price, Safety, Rel, Miles),
    car_strengths(Car, Strengths),
    forall(member(S, Strengths), (format('STRENGTH|~w~n', [S]))),
    !.
run.

:- run, halt.
`, absOrSelf(s.RulesFile), factsFile)

	output, err := s.runScript(ctx, script)
	if err != nil {
		return nil, err
	}

	var strengths []string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "STRENGTH|") {
			if phrase := strings.TrimSpace(strings.TrimPrefix(line, "STRENGTH|")); phrase != "" {
				strengths = append(strengths, phrase)
			}
		}
	}
	return strengths, nil
}

// runScript writes a call-local goal script and executes swipl on it with
// the configured timeout.
func (s *SwiplEvaluator) runScript(ctx context.Context, script string) (string, error) {
	dir, err := s.ensureWorkDir()
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "query-*.pl")
	if err != nil {
		return "", fmt.Errorf("create query script: %w", err)
	}
	scriptFile := tmp.Name()
	defer os.Remove(scriptFile)
	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write query script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close query script: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, s.SwiplPath, "-q", "-s", scriptFile)
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("swipl invocation: %w", err)
	}
	return string(output), nil
}

// absOrSelf resolves a path to absolute form for loading from the work dir.
func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
