package tangle

import "encoding/json"

// SidecarRegion is one contiguous run of output lines contributed by a
// single block — the out-of-band equivalent of a begin/end marker pair for
// a target whose body carries no markers.
type SidecarRegion struct {
	Block   string `json:"block"`
	Src     string `json:"src"`
	SrcLine int    `json:"src_line"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

type sidecarDoc struct {
	Regions []SidecarRegion `json:"regions"`
}

// SidecarName returns the sidecar path for a supplemental-mode target.
func SidecarName(target string) string {
	return target + ".entangled-map.json"
}

// Sidecar renders the marker map a supplemental-mode tangle writes next to
// its target instead of into the target's body. Regions are derived from
// the final (post-hook) line map, so a hook-relocated line stays correctly
// attributed.
func Sidecar(res Result) (string, error) {
	var regions []SidecarRegion
	for _, e := range res.LineMap {
		if e.Src == nil {
			continue
		}
		if n := len(regions); n > 0 {
			last := &regions[n-1]
			if last.Block == e.Src.BlockID && e.Line == last.End+1 {
				last.End = e.Line
				continue
			}
		}
		regions = append(regions, SidecarRegion{
			Block:   e.Src.BlockID,
			Src:     e.Src.File,
			SrcLine: e.Src.Line,
			Start:   e.Line,
			End:     e.Line,
		})
	}

	data, err := json.MarshalIndent(sidecarDoc{Regions: regions}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
