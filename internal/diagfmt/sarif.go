package diagfmt

import (
	"encoding/json"
	"io"
	"slices"

	"declcheck/internal/diag"
	"declcheck/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes            []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine,omitempty"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion   `json:"deletedRegion"`
	InsertedContent *sarifMessage `json:"insertedContent,omitempty"`
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0): один run, одно
// правило на каждый встретившийся код.
func Sarif(w io.Writer, files []FileReport, fs *source.FileSet, meta SarifRunMeta) error {
	if meta.ToolName == "" {
		meta.ToolName = "declcheck"
	}

	var used []diag.Code
	for _, report := range files {
		if report.Bag == nil {
			continue
		}
		for _, d := range report.Bag.Items() {
			if !slices.Contains(used, d.Code) {
				used = append(used, d.Code)
			}
		}
	}
	slices.Sort(used)

	rules := make([]sarifRule, len(used))
	ruleIndex := make(map[diag.Code]int, len(used))
	for i, code := range used {
		rules[i] = sarifRule{
			ID:               code.ID(),
			Name:             code.Title(),
			ShortDescription: sarifMessage{Text: code.Title()},
		}
		ruleIndex[code] = i
	}

	results := make([]sarifResult, 0)
	hasErrors := false
	for _, report := range files {
		if report.Bag == nil {
			continue
		}
		for _, d := range report.Bag.Items() {
			if d.Severity >= diag.SevError {
				hasErrors = true
			}
			results = append(results, buildSarifResult(&d, fs, meta.PathMode, ruleIndex[d.Code]))
		}
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          rules,
		}},
		Results: results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: !hasErrors,
		}}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs:    []sarifRun{run},
	})
}

func buildSarifResult(d *diag.Diagnostic, fs *source.FileSet, mode PathMode, ruleIdx int) sarifResult {
	res := sarifResult{
		RuleID:    d.Code.ID(),
		RuleIndex: ruleIdx,
		Level:     sarifLevel(d.Severity),
		Message:   sarifMessage{Text: d.Message},
		Locations: []sarifLocation{{PhysicalLocation: sarifPhysical(fs, d.Primary, mode)}},
	}
	for i, n := range d.Notes {
		res.RelatedLocations = append(res.RelatedLocations, sarifLocation{
			ID:               i + 1,
			PhysicalLocation: sarifPhysical(fs, n.Span, mode),
			Message:          &sarifMessage{Text: n.Msg},
		})
	}
	for _, fix := range d.Fixes {
		sf := sarifFix{Description: sarifMessage{Text: fix.Title}}
		for _, edit := range fix.Edits {
			phys := sarifPhysical(fs, edit.Span, mode)
			sf.ArtifactChanges = append(sf.ArtifactChanges, sarifArtifactChange{
				ArtifactLocation: phys.ArtifactLocation,
				Replacements: []sarifReplacement{{
					DeletedRegion:   sarifRegion{ByteOffset: edit.Span.Start, ByteLength: edit.Span.End - edit.Span.Start},
					InsertedContent: &sarifMessage{Text: edit.NewText},
				}},
			})
		}
		res.Fixes = append(res.Fixes, sf)
	}
	return res
}

func sarifPhysical(fs *source.FileSet, span source.Span, mode PathMode) sarifPhysicalLocation {
	start, end := resolve(fs, span)
	return sarifPhysicalLocation{
		ArtifactLocation: sarifArtifactLocation{URI: displayPath(fs, span.File, mode)},
		Region: sarifRegion{
			StartLine:   start.Line,
			StartColumn: start.Col,
			EndLine:     end.Line,
			EndColumn:   end.Col,
			ByteOffset:  span.Start,
			ByteLength:  span.End - span.Start,
		},
	}
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}
