package main

import (
	"testing"

	"github.com/spf13/viper"
)

func TestFlagsBound(t *testing.T) {
	f := rootCmd.Flags()
	for _, kv := range [][2]string{
		{"ncycle", "12"},
		{"robust", "0.01"},
		{"seed", "42"},
		{"filter", "1:10:0.6"},
		{"paired", "off"},
	} {
		if err := f.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("set %s: %v", kv[0], err)
		}
	}

	opts, err := options()
	if err != nil {
		t.Fatalf("options: %v", err)
	}

	if opts.NCycle != 12 || opts.Mu != 0.01 || opts.Seed != 42 || opts.Purity == nil {
		t.Fatalf("flags not bound: %+v", opts)
	}

	t.Setenv("SIMNGS_LOG_LEVEL", "debug")
	if lvl := viper.GetString("log-level"); lvl != "debug" {
		t.Fatalf("environment not bound: log-level %q", lvl)
	}
}
