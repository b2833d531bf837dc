// Tallgrass is a creature-battling RPG simulator: explore grid maps, fight
// wild encounters in tall grass, train a team, and beat the gym leader.
// Usage: tallgrass [--version] [--plain] [--script <file>] [--trace]
//
//	[--config <file>] [--content <dir>] [--seed <n>] [--policy <name>]
//	[--episodes <n>] [--steps <n>] [--serve] [--connect] [--addr <host:port>]
//	[--write-config <file>]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/nathoo/tallgrass/cli"
	"github.com/nathoo/tallgrass/config"
	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/engine/team"
	"github.com/nathoo/tallgrass/loader"
	"github.com/nathoo/tallgrass/policy"
	"github.com/nathoo/tallgrass/remote"
	"github.com/nathoo/tallgrass/tui"
	"github.com/nathoo/tallgrass/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: tallgrass [--version] [--plain] [--script <file>] [--trace] [--config <file>] [--content <dir>] [--seed <n>] [--policy <name>] [--episodes <n>] [--steps <n>] [--serve] [--connect] [--addr <host:port>] [--write-config <file>]\n"

type options struct {
	plain       bool
	trace       bool
	scriptFile  string
	configFile  string
	contentDir  string
	seed        *int64
	policy      string
	episodes    int
	steps       int
	serve       bool
	connect     bool
	addr        string
	writeConfig string
}

func main() {
	opts := parseArgs(os.Args[1:])

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	if opts.contentDir != "" {
		cfg.Content = opts.contentDir
	}
	if opts.seed != nil {
		cfg.Engine.Seed = *opts.seed
	}
	if opts.addr != "" {
		cfg.Remote.Addr = opts.addr
	}
	if opts.policy != "" {
		cfg.Policy = opts.policy
		if err := cfg.Validate(); err != nil {
			fatalf("Error: %v", err)
		}
	}
	if opts.writeConfig != "" {
		out := *cfg
		out.Gemini.APIKey = ""
		if err := out.Save(opts.writeConfig); err != nil {
			fatalf("Error writing config: %v", err)
		}
		fmt.Printf("Wrote %s\n", opts.writeConfig)
		return
	}

	d, contentName, err := loadContent(cfg.Content)
	if err != nil {
		fatalf("Error loading content: %v", err)
	}
	newManager := func() *team.Manager {
		return team.New(engine.New(d, cfg.Engine), cfg.Team)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case opts.serve:
		srv := remote.NewServer(func() remote.Env { return newManager() })
		srv.Logger = log.New(os.Stderr, "tallgrass: ", log.LstdFlags)
		srv.Logger.Printf("serving %s content on %s", contentName, remoteURL(cfg.Remote.Addr))
		if err := remote.ListenAndServe(ctx, cfg.Remote.Addr, srv); err != nil {
			fatalf("Error: %v", err)
		}
		return

	case opts.connect:
		if err := runRemote(ctx, cfg, opts); err != nil {
			fatalf("Error: %v", err)
		}
		return
	}

	m := newManager()
	autopilot, closeFn, err := buildPolicy(ctx, cfg, m.Farming, bestMove(m))
	if err != nil {
		fatalf("Error: %v", err)
	}
	defer closeFn()

	if cfg.Policy != config.PolicyHuman && opts.scriptFile == "" {
		runEpisodes(m, autopilot, cfg.Engine.Seed, opts)
		return
	}

	// Script mode: open file, force plain, echo commands.
	if opts.scriptFile != "" {
		f, err := os.Open(opts.scriptFile)
		if err != nil {
			fatalf("Error opening script: %v", err)
		}
		defer f.Close()
		c := cli.New(m, contentName)
		c.In = f
		c.EchoInput = true
		c.Trace = opts.trace
		c.Autopilot = autopilot
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if opts.plain || !isTerminal() {
		c := cli.New(m, contentName)
		c.Trace = opts.trace
		c.Autopilot = autopilot
		c.Run()
		return
	}

	if err := tui.Run(m, contentName, autopilot); err != nil {
		fatalf("Error: %v", err)
	}
}

func parseArgs(args []string) options {
	opts := options{episodes: 1, steps: 10000}
	value := func(i *int, flag string) string {
		if *i+1 >= len(args) {
			fatalf("%s requires a value", flag)
		}
		*i++
		return args[*i]
	}
	number := func(i *int, flag string) int64 {
		s := value(i, flag)
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			fatalf("%s: bad number %q", flag, s)
		}
		return n
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("tallgrass %s (commit %s, built %s)\n", version, commit, date)
			os.Exit(0)
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--script":
			opts.scriptFile = value(&i, "--script")
		case "--config":
			opts.configFile = value(&i, "--config")
		case "--content":
			opts.contentDir = value(&i, "--content")
		case "--seed":
			n := number(&i, "--seed")
			opts.seed = &n
		case "--policy":
			opts.policy = value(&i, "--policy")
		case "--episodes":
			opts.episodes = int(number(&i, "--episodes"))
		case "--steps":
			opts.steps = int(number(&i, "--steps"))
		case "--serve":
			opts.serve = true
		case "--connect":
			opts.connect = true
		case "--addr":
			opts.addr = value(&i, "--addr")
		case "--write-config":
			opts.writeConfig = value(&i, "--write-config")
		case "-h", "--help":
			fmt.Print(usage)
			os.Exit(0)
		default:
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
	}
	return opts
}

// loadContent compiles a Lua content directory, or falls back to the
// builtin tables when dir is empty.
func loadContent(dir string) (*dex.Dex, string, error) {
	if dir == "" {
		return dex.Builtin(), "builtin", nil
	}
	d, err := loader.Load(dir)
	if err != nil {
		return nil, "", err
	}
	return d, filepath.Base(filepath.Clean(dir)), nil
}

// buildPolicy returns the configured autopilot. The human policy still gets
// a scripted autopilot for /auto. farming reports the team's progress.
// moveSlot may be nil, which always attacks with the first slot.
func buildPolicy(ctx context.Context, cfg *config.Config, farming func() bool, moveSlot func(types.Observation) int) (policy.Policy, func(), error) {
	noop := func() {}
	scripted := &policy.Scripted{Farming: farming, MoveSlot: moveSlot}

	switch cfg.Policy {
	case config.PolicyRandom:
		p := policy.NewRandom(cfg.Engine.Seed)
		p.CombatActions = team.NumActions
		return p, noop, nil
	case config.PolicyGemini:
		g, err := policy.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, scripted)
		if err != nil {
			return nil, noop, err
		}
		g.CombatActions = team.NumActions
		return g, func() { _ = g.Close() }, nil
	default:
		return scripted, noop, nil
	}
}

// bestMove picks the active member's move with the highest power times
// type multiplier against the current opponent.
func bestMove(m *team.Manager) func(types.Observation) int {
	return func(types.Observation) int {
		e := m.Engine
		opp := e.Session.Opponent
		if opp == nil {
			return 0
		}
		best, bestScore := 0, -1.0
		for slot, name := range m.ActiveMember().Moves {
			mv := e.Dex.Move(name)
			score := float64(mv.Power) * e.Dex.Multiplier(mv.Type, opp.Types)
			if score > bestScore {
				best, bestScore = slot, score
			}
		}
		return best
	}
}

func runEpisodes(m *team.Manager, p policy.Policy, seed int64, opts options) {
	for ep := 0; ep < opts.episodes; ep++ {
		obs := m.Reset(engine.WithSeed(seed + int64(ep)))
		res, _ := policy.Run(func(a int) (types.Result, error) {
			return m.Step(a), nil
		}, obs, p, opts.steps, traceFunc(opts.trace))
		fmt.Printf("episode %d: %d steps, reward %.2f, champion %v, map %d\n",
			ep+1, res.Steps, res.Reward, m.Champion, m.Engine.Session.MapIndex+1)
	}
}

// runRemote plays episodes against a tallgrass server.
func runRemote(ctx context.Context, cfg *config.Config, opts options) error {
	c, err := remote.Dial(ctx, remoteURL(cfg.Remote.Addr))
	if err != nil {
		return err
	}
	defer c.Close()

	var farming bool
	p, closeFn, err := buildPolicy(ctx, cfg, func() bool { return farming }, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	each := traceFunc(opts.trace)
	for ep := 0; ep < opts.episodes; ep++ {
		seed := cfg.Engine.Seed + int64(ep)
		obs, err := c.Reset(&seed, nil)
		if err != nil {
			return err
		}
		farming = true
		res, err := policy.Run(c.Step, obs, p, opts.steps, func(r types.Result) {
			farming, _ = r.Info["farming"].(bool)
			each(r)
		})
		if err != nil {
			return err
		}
		champion, _ := res.Last.Info["champion"].(bool)
		fmt.Printf("episode %d: %d steps, reward %.2f, champion %v\n", ep+1, res.Steps, res.Reward, champion)
	}
	return nil
}

// remoteURL is the websocket endpoint a server on addr listens at.
func remoteURL(addr string) string {
	return "ws://" + addr + "/"
}

func traceFunc(trace bool) func(types.Result) {
	return func(r types.Result) {
		if !trace {
			return
		}
		for _, line := range r.Output {
			fmt.Println(line)
		}
		for _, line := range cli.Trace(r) {
			fmt.Println(line)
		}
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
