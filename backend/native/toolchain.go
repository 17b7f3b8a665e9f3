package native

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/xyproto/env/v2"

	frep "github.com/IdeaLab-Design-Environments-Group/iFRep"
)

// compilers lists the compiler commands tried in order. The FREP_CC
// environment variable, when set, is tried before all of them.
var compilers = []string{"cc", "gcc", "clang"}

// compile builds src into an executable at out, trying each candidate
// compiler until one succeeds.
//
// When no candidate resolves to a runnable command the toolchain is
// missing and frep.ErrToolchainUnavailable is returned. When a
// compiler runs and rejects the program, the program text is at fault,
// which for a generated renderer means the expression body; the last
// diagnostic is returned wrapping frep.ErrUnsupportedExpression.
func compile(dir, src, out string) error {
	candidates := compilers
	if cc := env.Str("FREP_CC"); cc != "" {
		candidates = append([]string{cc}, compilers...)
	}

	var lastErr error
	for _, cc := range candidates {
		path, err := exec.LookPath(cc)
		if err != nil {
			frep.Logger().Debug("compiler not found", "cc", cc)
			continue
		}

		cmd := exec.Command(path, "-O2", "-o", out, src, "-lm", "-lpng", "-lpthread")
		cmd.Dir = dir
		frep.Logger().Debug("compiling native renderer", "argv", cmd.Args)

		output, err := cmd.CombinedOutput()
		if err == nil {
			frep.Logger().Info("compiled native renderer", "cc", cc)
			return nil
		}
		lastErr = fmt.Errorf("native: compile with %s: %s: %w",
			cc, strings.TrimSpace(string(output)), frep.ErrUnsupportedExpression)
	}

	if lastErr == nil {
		return frep.ErrToolchainUnavailable
	}
	return lastErr
}
