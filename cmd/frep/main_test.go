package main

import "testing"

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		dpi     int
		outfile string
		wantErr bool
	}{
		{"defaults", nil, 100, "out.png", false},
		{"dpi only", []string{"300"}, 300, "out.png", false},
		{"dpi and outfile", []string{"72", "board.png"}, 72, "board.png", false},
		{"zero dpi passes through", []string{"0"}, 0, "out.png", false},
		{"negative dpi passes through", []string{"-90"}, -90, "out.png", false},
		{"non-numeric dpi", []string{"fast"}, 0, "", true},
		{"too many arguments", []string{"100", "a.png", "extra"}, 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dpi, outfile, err := parseArgs(tt.args, 100)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseArgs(%q) error = nil, want error", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArgs(%q) error = %v", tt.args, err)
			}
			if dpi != tt.dpi || outfile != tt.outfile {
				t.Errorf("parseArgs(%q) = (%d, %q), want (%d, %q)",
					tt.args, dpi, outfile, tt.dpi, tt.outfile)
			}
		})
	}
}

func TestParseArgsKeepsBackendDefault(t *testing.T) {
	dpi, outfile, err := parseArgs(nil, defaultNativeDPI)
	if err != nil {
		t.Fatalf("parseArgs error = %v", err)
	}
	if dpi != defaultNativeDPI {
		t.Errorf("dpi = %d, want %d", dpi, defaultNativeDPI)
	}
	if outfile != defaultOutfile {
		t.Errorf("outfile = %q, want %q", outfile, defaultOutfile)
	}
}
