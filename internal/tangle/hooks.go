package tangle

import (
	"strings"

	"github.com/entangled-go/entangled/internal/config"
)

// ApplyHooks runs the configured post-emission hooks over a composed
// result. Each hook is a pure (lines, sources) -> (lines, sources)
// transform: it may reorder lines but every surviving line keeps the
// SourceRef it arrived with, so the line map stays sound.
func ApplyHooks(res Result, cfg config.Config) Result {
	lines, srcs := splitResult(res)

	if cfg.Hooks.Shebang {
		lines, srcs = moveFirstMatch(lines, srcs, isShebang, 0)
	}
	if cfg.Hooks.SPDXLicense {
		dest := 0
		if len(lines) > 0 && isShebang(lines[0]) {
			dest = 1
		}
		lines, srcs = moveFirstMatch(lines, srcs, isSPDX, dest)
	}

	return rebuild(res.Target, res.RawTarget, lines, srcs)
}

func isShebang(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#!")
}

func isSPDX(line string) bool {
	return strings.Contains(line, "SPDX-License-Identifier")
}

// moveFirstMatch relocates the first line satisfying pred to index dest,
// shifting everything between unchanged. A no-op if no line matches or the
// match is already at dest.
func moveFirstMatch(lines []string, srcs []*SourceRef, pred func(string) bool, dest int) ([]string, []*SourceRef) {
	idx := -1
	for i, l := range lines {
		if pred(l) {
			idx = i
			break
		}
	}
	if idx == -1 || idx == dest {
		return lines, srcs
	}

	line, src := lines[idx], srcs[idx]
	lines = append(lines[:idx:idx], lines[idx+1:]...)
	srcs = append(srcs[:idx:idx], srcs[idx+1:]...)

	lines = append(lines[:dest:dest], append([]string{line}, lines[dest:]...)...)
	srcs = append(srcs[:dest:dest], append([]*SourceRef{src}, srcs[dest:]...)...)
	return lines, srcs
}

func splitResult(res Result) ([]string, []*SourceRef) {
	if res.Text == "" {
		return nil, nil
	}
	lines := strings.Split(strings.TrimSuffix(res.Text, "\n"), "\n")
	srcs := make([]*SourceRef, len(lines))
	for i := range lines {
		if i < len(res.LineMap) {
			srcs[i] = res.LineMap[i].Src
		}
	}
	return lines, srcs
}

func rebuild(target, rawTarget string, lines []string, srcs []*SourceRef) Result {
	lm := make([]LineMapEntry, len(lines))
	for i := range lines {
		lm[i] = LineMapEntry{Line: i + 1, Src: srcs[i]}
	}
	text := strings.Join(lines, "\n")
	if len(lines) > 0 {
		text += "\n"
	}
	return Result{Target: target, RawTarget: rawTarget, Text: text, LineMap: lm}
}
