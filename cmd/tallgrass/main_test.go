package main

import "testing"

func TestParseArgs_Remote(t *testing.T) {
	opts := parseArgs([]string{"--serve", "--addr", "0.0.0.0:9000", "--episodes", "3"})
	if !opts.serve || opts.connect || opts.addr != "0.0.0.0:9000" || opts.episodes != 3 {
		t.Errorf("opts = %+v", opts)
	}
	opts = parseArgs([]string{"--connect", "--write-config", "out.yaml"})
	if !opts.connect || opts.addr != "" || opts.writeConfig != "out.yaml" || opts.steps != 10000 {
		t.Errorf("opts = %+v", opts)
	}
}

func TestRemoteURL(t *testing.T) {
	if got := remoteURL("localhost:8765"); got != "ws://localhost:8765/" {
		t.Errorf("url = %q", got)
	}
}
