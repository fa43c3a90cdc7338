package docparser

import (
	"fmt"
	"strings"

	"github.com/entangled-go/entangled/internal/config"
)

// parseHeader extracts (language, name, attributes) from a fence header
// string according to the dialect's grammar. attrs preserves insertion
// order via order, since Document.CodeBlock.Attributes is an ordered map.
func parseHeader(style config.Style, header string) (lang, name string, attrs map[string]string, order []string, err error) {
	attrs = make(map[string]string)

	switch style {
	case config.StyleEntangledRS:
		return parseEntangledRS(header)
	case config.StylePandoc, config.StyleQuarto:
		return parsePandoc(header)
	case config.StyleKnitr:
		return parseKnitr(header)
	default:
		return "", "", nil, nil, fmt.Errorf("unknown dialect %q", style)
	}
}

// parseEntangledRS parses "LANG #id [key=value ...]".
func parseEntangledRS(header string) (string, string, map[string]string, []string, error) {
	attrs := map[string]string{}
	var order []string
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return "", "", attrs, order, nil
	}
	lang := fields[0]
	name := ""
	for _, f := range fields[1:] {
		switch {
		case strings.HasPrefix(f, "#"):
			name = strings.TrimPrefix(f, "#")
		case strings.Contains(f, "="):
			k, v := splitKV(f)
			attrs[k] = v
			order = append(order, k)
		}
	}
	return lang, name, attrs, order, nil
}

// parsePandoc parses "{.LANG #id key=value}" (also used for quarto, whose
// header grammar is identical; only "#|" option stripping differs).
func parsePandoc(header string) (string, string, map[string]string, []string, error) {
	attrs := map[string]string{}
	var order []string
	inner := header
	if strings.HasPrefix(inner, "{") && strings.HasSuffix(inner, "}") {
		inner = inner[1 : len(inner)-1]
	}
	fields := strings.Fields(inner)
	lang := ""
	name := ""
	for _, f := range fields {
		switch {
		case strings.HasPrefix(f, "."):
			lang = strings.TrimPrefix(f, ".")
		case strings.HasPrefix(f, "#"):
			name = strings.TrimPrefix(f, "#")
		case strings.Contains(f, "="):
			k, v := splitKV(f)
			attrs[k] = v
			order = append(order, k)
		}
	}
	return lang, name, attrs, order, nil
}

// parseKnitr parses "{LANG, id, opts}" with comma-separated fields mapping
// to attributes.
func parseKnitr(header string) (string, string, map[string]string, []string, error) {
	attrs := map[string]string{}
	var order []string
	inner := header
	if strings.HasPrefix(inner, "{") && strings.HasSuffix(inner, "}") {
		inner = inner[1 : len(inner)-1]
	}
	parts := strings.Split(inner, ",")
	lang := ""
	name := ""
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i == 0 {
			lang = p
			continue
		}
		if strings.Contains(p, "=") {
			k, v := splitKV(p)
			attrs[k] = v
			order = append(order, k)
			continue
		}
		if name == "" {
			name = p
		}
	}
	return lang, name, attrs, order, nil
}

func splitKV(f string) (string, string) {
	idx := strings.Index(f, "=")
	k := f[:idx]
	v := strings.Trim(f[idx+1:], `"'`)
	return k, v
}
