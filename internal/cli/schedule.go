package cli

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/segue/internal/core"
	serrors "github.com/tessro/segue/internal/errors"
	"github.com/tessro/segue/internal/library"
	"github.com/tessro/segue/internal/sequencer"
)

var (
	scheduleOps   []string
	scheduleSteps int
	scheduleSeed  uint64
	scheduleMode  string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [dir...]",
	Short: "Preview the order tracks would play in",
	Long: `Run the sequencer over a library without playing anything and print
where each operation lands.

Operations:
  next            Advance to the next track
  prev            Go back in history
  jump:ROW        Move to ROW without recording history
  play:ROW        Play ROW now, recording the departing track
  select:ROW      Mark ROW for the queue
  enqueue         Queue the marked tracks
  mode:MODE       Switch to order, single or shuffle
  reset           Clear the queues and return to the first track

Examples:
  segue schedule ~/Music --steps 20
  segue schedule ~/Music --mode shuffle --seed 7
  segue schedule ~/Music --ops next,next,select:9,enqueue,next,prev`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringSliceVarP(&scheduleOps, "ops", "o", nil, "operations to run, comma separated")
	scheduleCmd.Flags().IntVarP(&scheduleSteps, "steps", "n", 10, "number of next operations when --ops is not given")
	scheduleCmd.Flags().Uint64Var(&scheduleSeed, "seed", 0, "shuffle seed (default random)")
	scheduleCmd.Flags().StringVarP(&scheduleMode, "mode", "m", "", "starting mode (default from config)")
	rootCmd.AddCommand(scheduleCmd)
}

// scheduleOp is one parsed operation.
type scheduleOp struct {
	Name string
	Row  int
	Mode core.Mode
}

func (o scheduleOp) String() string {
	switch o.Name {
	case "jump", "play", "select":
		return fmt.Sprintf("%s:%d", o.Name, o.Row)
	case "mode":
		return "mode:" + o.Mode.String()
	default:
		return o.Name
	}
}

// scheduleStep records the engine after one operation.
type scheduleStep struct {
	Step      int    `json:"step"`
	Op        string `json:"op"`
	OK        bool   `json:"ok"`
	Row       int    `json:"row"`
	Track     string `json:"track,omitempty"`
	Mode      string `json:"mode"`
	Lookahead int    `json:"lookahead"`
	Queued    int    `json:"queued"`
	History   int    `json:"history"`
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ops, err := parseOps(scheduleOps)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		for range scheduleSteps {
			ops = append(ops, scheduleOp{Name: "next"})
		}
	}

	mode, err := core.ParseMode(cfg.Defaults.Mode)
	if scheduleMode != "" {
		mode, err = core.ParseMode(scheduleMode)
	}
	if err != nil {
		return err
	}

	dirs, err := resolveDirs(args, cfg.Library.Dirs, "")
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return serrors.ErrNoTracks
	}

	lib := library.New()
	result := lib.Import(scanOptions(cfg.Library), dirs...)
	for _, err := range result.Errors {
		slog.Warn("library import", "error", err)
	}
	if lib.Len() == 0 {
		return fmt.Errorf("%w in %s", serrors.ErrNoTracks, strings.Join(dirs, ", "))
	}

	opts := sequencerOptions(cfg.Sequencer)
	if scheduleSeed != 0 {
		opts.Rand = rand.New(rand.NewPCG(scheduleSeed, scheduleSeed))
	}
	engine := sequencer.New(lib, opts)
	engine.SetMode(mode)

	steps := simulate(lib, engine, ops)
	if JSONOutput() {
		return printJSON(os.Stdout, steps)
	}
	renderSchedule(os.Stdout, steps)
	return nil
}

// parseOps parses operation specs such as "next" or "jump:3".
func parseOps(specs []string) ([]scheduleOp, error) {
	var ops []scheduleOp
	for _, spec := range specs {
		spec = strings.ToLower(strings.TrimSpace(spec))
		if spec == "" {
			continue
		}
		name, arg, hasArg := strings.Cut(spec, ":")

		op := scheduleOp{Name: name}
		switch name {
		case "next", "enqueue", "reset":
		case "prev", "previous":
			op.Name = "prev"
		case "jump", "play", "select":
			row, err := strconv.Atoi(arg)
			if !hasArg || err != nil || row < 0 {
				return nil, fmt.Errorf("invalid operation %q: %s needs a row number", spec, name)
			}
			op.Row = row
		case "mode":
			mode, err := core.ParseMode(arg)
			if !hasArg || err != nil {
				return nil, fmt.Errorf("invalid operation %q: mode must be order, single, or shuffle", spec)
			}
			op.Mode = mode
		default:
			return nil, fmt.Errorf("unknown operation %q", spec)
		}
		if hasArg && (op.Name == "next" || op.Name == "prev" || op.Name == "enqueue" || op.Name == "reset") {
			return nil, fmt.Errorf("invalid operation %q: %s takes no argument", spec, op.Name)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// simulate applies ops to engine and records where each one lands. Step 0
// is the starting position.
func simulate(lib *library.Library, engine *sequencer.Engine, ops []scheduleOp) []scheduleStep {
	record := func(step int, op string, t core.Track, ok bool) scheduleStep {
		stats := engine.Stats()
		s := scheduleStep{
			Step:      step,
			Op:        op,
			OK:        ok,
			Row:       -1,
			Mode:      stats.Mode.String(),
			Lookahead: stats.Lookahead,
			Queued:    stats.Priority,
			History:   stats.History,
		}
		if ok {
			s.Row = lib.IndexOf(t.ID)
			s.Track = t.Title
		}
		return s
	}

	t, ok := engine.Current()
	steps := []scheduleStep{record(0, "start", t, ok)}

	for i, op := range ops {
		switch op.Name {
		case "next":
			t, ok = engine.Next()
		case "prev":
			t, ok = engine.Previous()
		case "jump":
			t, ok = engine.JumpTo(op.Row, false)
		case "play":
			t, ok = engine.JumpTo(op.Row, true)
		case "select":
			ok = lib.Select(op.Row)
			if ok {
				t, ok = engine.Current()
			}
		case "enqueue":
			engine.EnqueueSelected()
			lib.ClearSelection()
			t, ok = engine.Current()
		case "mode":
			engine.SetMode(op.Mode)
			t, ok = engine.Current()
		case "reset":
			engine.Reset()
			t, ok = engine.Current()
		}
		steps = append(steps, record(i+1, op.String(), t, ok))
	}
	return steps
}

func renderSchedule(w io.Writer, steps []scheduleStep) {
	table := NewTableWriter(w, "STEP", "OP", "ROW", "TRACK", "MODE", "LOOKAHEAD", "QUEUED", "HISTORY")
	for _, s := range steps {
		row := "-"
		if s.OK {
			row = strconv.Itoa(s.Row)
		}
		track := s.Track
		if track == "" {
			track = "-"
		}
		table.Row(
			strconv.Itoa(s.Step),
			s.Op,
			row,
			TruncateString(track, 40),
			s.Mode,
			strconv.Itoa(s.Lookahead),
			strconv.Itoa(s.Queued),
			strconv.Itoa(s.History),
		)
	}
	table.Flush()
}
