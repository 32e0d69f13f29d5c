// Package costprog implements the scoring subprogram: it parses candidate
// routines, prints their costs and optionally records them in a store.
package costprog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"src.gdsl.dev/pkg/corpus"
	"src.gdsl.dev/pkg/cost"
	"src.gdsl.dev/pkg/diag"
	"src.gdsl.dev/pkg/extract"
	"src.gdsl.dev/pkg/logutil"
	"src.gdsl.dev/pkg/parse"
	"src.gdsl.dev/pkg/prog"
	"src.gdsl.dev/pkg/score"
	"src.gdsl.dev/pkg/store"
	"src.gdsl.dev/pkg/store/storedefs"
	"src.gdsl.dev/pkg/sys"
	"src.gdsl.dev/pkg/term"
)

var logger = logutil.GetLogger("[costprog] ")

// Program is the scoring subprogram. It runs unconditionally, so it should be
// the last one in a composite program.
type Program struct {
	json    *bool
	workers *int

	tree, response bool
	naive          int
	corpus, db     string
	mappedName     string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	p.json = fs.JSON()
	p.workers = fs.Workers()
	fs.BoolVar(&p.tree, "tree", false, "print the term tree of each candidate")
	fs.BoolVar(&p.response, "response", false,
		"treat each file as a raw model response and extract the routine from it")
	fs.IntVar(&p.naive, "naive", 0,
		"naive cost of the target graph; if positive, also show the ratio and improvement")
	fs.StringVar(&p.corpus, "corpus", "",
		"evaluate a corpus file, or a directory of sample files, instead of candidates")
	fs.StringVar(&p.db, "db", "", "path to a database to record scores in")
	fs.StringVar(&p.mappedName, "mapped-name", term.MappedApplyName,
		"reserved name of the higher-order construct")
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	diag.UseColor(sys.IsATTY(fds[2]))
	if p.corpus != "" && len(args) > 0 {
		return prog.BadUsage("arguments are not allowed with -corpus")
	}
	if p.naive < 0 {
		return prog.BadUsage("-naive must not be negative")
	}

	var st storedefs.Store
	if p.db != "" {
		db, err := store.NewStore(p.db)
		if err != nil {
			return fmt.Errorf("cannot open database: %w", err)
		}
		defer db.Close()
		st = db
	}
	r := &runner{p: p, fds: fds, store: st,
		cfg: parse.Config{MappedApplyName: p.mappedName, WarningWriter: fds[2]}}

	if p.corpus != "" {
		return r.runCorpus()
	}
	if len(args) == 0 {
		code, err := io.ReadAll(fds[0])
		if err != nil {
			return err
		}
		return prog.Exit(r.runCandidate("[stdin]", string(code)))
	}
	exit := 0
	for _, name := range args {
		code, err := os.ReadFile(name)
		if err != nil {
			diag.Complain(fds[2], err.Error())
			exit = 1
			continue
		}
		if r.runCandidate(name, string(code)) != 0 {
			exit = 1
		}
	}
	return prog.Exit(exit)
}

type runner struct {
	p     *Program
	fds   [3]*os.File
	store storedefs.Store
	cfg   parse.Config
}

// Output of -json, one object per line.
type record struct {
	Name        string     `json:"name"`
	Routine     string     `json:"routine,omitempty"`
	Cost        int        `json:"cost"`
	Breakdown   []int      `json:"breakdown"`
	NaiveCost   int        `json:"naive_cost,omitempty"`
	Ratio       float64    `json:"ratio,omitempty"`
	Improvement float64    `json:"improvement,omitempty"`
	Error       *errRecord `json:"error,omitempty"`
}

type errRecord struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	// A rejection recorded in the corpus.
	Expected bool `json:"expected,omitempty"`
}

func newErrRecord(err error) *errRecord {
	if perr, ok := err.(*parse.Error); ok {
		pos := diag.PositionOf(perr.Context.Source, perr.Context.From)
		return &errRecord{Kind: perr.Tag.String(), Message: perr.Message,
			Line: pos.Line, Col: pos.Col}
	}
	return &errRecord{Message: err.Error()}
}

// Scores one candidate and returns its exit status.
func (r *runner) runCandidate(name, code string) int {
	if r.p.response {
		code = extract.Code(code)
	}
	rec := record{Name: name, NaiveCost: r.p.naive}
	var costs []int
	program, err := parse.Parse(parse.Source{Name: name, Code: code}, r.cfg)
	if err == nil {
		costs, err = cost.Breakdown(program)
	}
	if err == nil {
		rec.Routine = program.Routine.Name
		rec.Breakdown = costs
		rec.Cost = sum(costs)
	}
	if rec.NaiveCost > 0 {
		rec.Ratio = score.Ratio(rec.NaiveCost, rec.Cost)
		rec.Improvement = score.Improvement(rec.NaiveCost, rec.Cost, err == nil)
	}
	r.record(rec, err)

	if *r.p.json {
		if err != nil {
			rec.Error = newErrRecord(err)
		}
		r.writeJSON(rec)
	} else if err != nil {
		diag.ShowError(r.fds[2], err)
	} else {
		fmt.Fprintf(r.fds[1], "%s: %s: cost %s", name, rec.Routine, showCost(rec.Cost, costs))
		if rec.NaiveCost > 0 {
			fmt.Fprintf(r.fds[1], ", naive %d, ratio %.2f, improvement %.2f",
				rec.NaiveCost, rec.Ratio, rec.Improvement)
		}
		fmt.Fprintln(r.fds[1])
	}
	if err == nil && r.p.tree {
		term.PPrint(r.fds[1], program)
	}
	if err != nil {
		return 1
	}
	return 0
}

func (r *runner) runCorpus() error {
	var c *corpus.Corpus
	var err error
	if info, statErr := os.Stat(r.p.corpus); statErr == nil && info.IsDir() {
		c, err = corpus.LoadDir(r.p.corpus)
	} else {
		c, err = corpus.LoadFile(r.p.corpus)
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results := corpus.Evaluate(ctx, c, corpus.Config{Workers: *r.p.workers, Parse: r.cfg})

	for _, res := range results {
		rec := record{Name: res.Name, Cost: res.Cost, Breakdown: res.Breakdown,
			NaiveCost: res.NaiveCost, Ratio: res.Ratio}
		accepted := res.ParseErr == nil && res.Breakdown != nil
		rec.Improvement = score.Improvement(res.NaiveCost, res.Cost, accepted)
		switch {
		case res.Err != nil:
			rec.Error = newErrRecord(res.Err)
		case res.ParseErr != nil:
			rec.Error = newErrRecord(res.ParseErr)
			rec.Error.Expected = true
		}
		failure := res.Err
		if failure == nil {
			failure = res.ParseErr
		}
		r.record(rec, failure)

		switch {
		case *r.p.json:
			r.writeJSON(rec)
		case res.Err != nil:
			diag.Complain(r.fds[2], fmt.Sprintf("%s: FAIL: %v", res.Name, res.Err))
		case res.ParseErr != nil:
			fmt.Fprintf(r.fds[1], "%s: rejected as expected: %s\n", res.Name, rec.Error.Message)
		default:
			fmt.Fprintf(r.fds[1], "%s: cost %s, naive %d, ratio %.2f\n",
				res.Name, showCost(res.Cost, res.Breakdown), res.NaiveCost, res.Ratio)
		}
	}

	s := corpus.Summarize(results)
	if !*r.p.json {
		fmt.Fprintf(r.fds[1], "%d samples: %d accepted, %d rejected, %d failed; mean improvement %.2f\n",
			s.Total, s.Accepted, s.Rejected, s.Failed, s.MeanImprovement)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Failed > 0 {
		return prog.Exit(1)
	}
	return nil
}

func (r *runner) record(rec record, err error) {
	if r.store == nil {
		return
	}
	sc := storedefs.Score{Name: rec.Name, Cost: rec.Cost, NaiveCost: rec.NaiveCost,
		Ratio: rec.Ratio, Breakdown: rec.Breakdown, Time: time.Now()}
	if err != nil {
		sc.Error = err.Error()
	}
	if _, err := r.store.AddScore(sc); err != nil {
		logger.Printf("failed to record score of %s: %v", rec.Name, err)
		diag.Complainf(r.fds[2], "cannot record score of %s: %v", rec.Name, err)
	}
}

func (r *runner) writeJSON(rec record) {
	if rec.Breakdown == nil {
		rec.Breakdown = []int{}
	}
	enc := json.NewEncoder(r.fds[1])
	if err := enc.Encode(rec); err != nil {
		logger.Println("failed to encode record:", err)
	}
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// Formats a total with its breakdown, like "6 (2 + 4)".
func showCost(total int, costs []int) string {
	if len(costs) <= 1 {
		return fmt.Sprint(total)
	}
	parts := make([]string, len(costs))
	for i, c := range costs {
		parts[i] = fmt.Sprint(c)
	}
	return fmt.Sprintf("%d (%s)", total, strings.Join(parts, " + "))
}
