package remote

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/nathoo/tallgrass/engine"
	"github.com/nathoo/tallgrass/engine/dex"
	"github.com/nathoo/tallgrass/engine/team"
	"github.com/nathoo/tallgrass/policy"
	"github.com/nathoo/tallgrass/types"
)

func newEngine() Env {
	return engine.New(dex.Builtin(), engine.DefaultTuning())
}

func startServer(t *testing.T, newEnv func() Env) string {
	t.Helper()
	ts := httptest.NewServer(NewServer(newEnv))
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *Client {
	t.Helper()
	c, err := Dial(context.Background(), url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func ptr[T any](v T) *T { return &v }

func TestReset_ReturnsExplorationObservation(t *testing.T) {
	c := dial(t, startServer(t, newEngine))

	obs, err := c.Reset(ptr(int64(3)), ptr(1))
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if obs.Mode != types.ModeExploration {
		t.Errorf("mode = %q", obs.Mode)
	}
	if len(obs.Grid) != engine.NumChannels || len(obs.Grid[0]) != 10 {
		t.Errorf("grid shape: %d channels", len(obs.Grid))
	}
}

func TestStep_MatchesLocalEngine(t *testing.T) {
	c := dial(t, startServer(t, newEngine))
	local := engine.New(dex.Builtin(), engine.DefaultTuning())

	if _, err := c.Reset(ptr(int64(11)), nil); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	local.Reset(engine.WithSeed(11))

	actions := []int{engine.ActionRight, engine.ActionRight, engine.ActionRight, engine.ActionDown, engine.ActionDown, 0, 0, 4}
	for i, a := range actions {
		got, err := c.Step(a)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		want := local.Step(a)
		if got.Reward != want.Reward || got.Done != want.Done || got.Observation.Mode != want.Observation.Mode {
			t.Fatalf("step %d: remote %v/%v/%s, local %v/%v/%s", i,
				got.Reward, got.Done, got.Observation.Mode, want.Reward, want.Done, want.Observation.Mode)
		}
		if len(got.Events) != len(want.Events) {
			t.Fatalf("step %d: %d events, want %d", i, len(got.Events), len(want.Events))
		}
	}
}

func TestStep_BeforeReset(t *testing.T) {
	c := dial(t, startServer(t, newEngine))
	if _, err := c.Step(0); err == nil || !strings.Contains(err.Error(), "reset before stepping") {
		t.Fatalf("err = %v", err)
	}
}

func TestBadRequests_KeepConnection(t *testing.T) {
	url := startServer(t, newEngine)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	send := func(msg string) Reply {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatal(err)
		}
		var r Reply
		if err := conn.ReadJSON(&r); err != nil {
			t.Fatal(err)
		}
		return r
	}

	if r := send(`{not json`); !strings.Contains(r.Error, "bad request") {
		t.Errorf("error = %q", r.Error)
	}
	if r := send(`{"op":"dance"}`); r.Error != `unknown op "dance"` {
		t.Errorf("error = %q", r.Error)
	}
	if r := send(`{"op":"reset","seed":1}`); r.Error != "" || r.Observation.Mode != types.ModeExploration {
		t.Errorf("reset after errors failed: %+v", r)
	}
}

func TestConnections_AreIndependent(t *testing.T) {
	url := startServer(t, newEngine)
	a, b := dial(t, url), dial(t, url)

	if _, err := a.Reset(ptr(int64(1)), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Reset(ptr(int64(1)), nil); err != nil {
		t.Fatal(err)
	}
	// Moving a does not move b.
	if _, err := a.Step(engine.ActionRight); err != nil {
		t.Fatal(err)
	}
	ra, _ := a.Step(engine.ActionRight)
	rb, _ := b.Step(engine.ActionRight)
	if ra.Info["col"] == rb.Info["col"] {
		t.Errorf("connections share state: both at col %v", ra.Info["col"])
	}
}

func TestTeamManagerOverRemote(t *testing.T) {
	url := startServer(t, func() Env {
		return team.New(engine.New(dex.Builtin(), engine.DefaultTuning()), team.DefaultOptions())
	})
	c := dial(t, url)
	if _, err := c.Reset(ptr(int64(5)), ptr(2)); err != nil {
		t.Fatal(err)
	}
	r, err := c.Step(engine.ActionRight)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Info["potions"]; !ok {
		t.Errorf("team info missing potions: %v", r.Info)
	}
	if r.Info["map"] != float64(2) {
		t.Errorf("map = %v, want the requested map 2", r.Info["map"])
	}
}

func TestPolicyRunOverRemote(t *testing.T) {
	c := dial(t, startServer(t, newEngine))
	obs, err := c.Reset(ptr(int64(2)), nil)
	if err != nil {
		t.Fatal(err)
	}
	ep, err := policy.Run(c.Step, obs, policy.NewRandom(2), 25, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ep.Steps == 0 || ep.Steps > 25 {
		t.Errorf("steps = %d", ep.Steps)
	}
}
