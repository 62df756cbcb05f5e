package main

import (
	"testing"

	"github.com/nao1215/newsverdict/internal/config"
)

func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	flag := cmd.Flags().Lookup("addr")
	if flag == nil {
		t.Fatal("expected addr flag")
	}
	if flag.DefValue != config.DefaultServeAddr {
		t.Errorf("expected default %q, got %q", config.DefaultServeAddr, flag.DefValue)
	}
	for _, name := range []string{"db-dir", "log-json"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
}
