package driver

import (
	"encoding/json"
	"fmt"

	"valign/internal/diag"
	"valign/internal/observ"
	"valign/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic wraps a timing report into an OBS6001 diagnostic whose
// single note carries the JSON payload. kind defaults to "pipeline".
func TimingDiagnostic(report observ.Report, kind, path string) (diag.Diagnostic, error) {
	if kind == "" {
		kind = "pipeline"
	}
	payload := timingPayload{Kind: kind, Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", kind, report.TotalMS)
	if path != "" {
		msg = fmt.Sprintf("%s, %s", msg, path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return diag.Diagnostic{}, err
	}
	return diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Notes:    []diag.Note{{Span: source.Span{}, Msg: string(data)}},
	}, nil
}

// AppendTiming adds the timing diagnostic to bag, growing past its cap if
// the bag is full.
func AppendTiming(bag *diag.Bag, report observ.Report, kind, path string) {
	if bag == nil {
		return
	}
	entry, err := TimingDiagnostic(report, kind, path)
	if err != nil {
		return
	}
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
