package cli

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"

	"github.com/xavierca1/hecms/internal/entity"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// stageColor tints a stage by how far along the pipeline it is.
func stageColor(s entity.Stage) string {
	switch s {
	case entity.StageDeclined:
		return color.New(color.FgRed).Sprint(s)
	case entity.StageDeposited, entity.StageMatriculated:
		return color.New(color.FgGreen).Sprint(s)
	case entity.StageApplied, entity.StageAccepted:
		return color.New(color.FgCyan).Sprint(s)
	}
	return string(s)
}

func temperatureColor(t entity.Temperature) string {
	switch t {
	case entity.TemperatureHot:
		return color.New(color.FgRed).Sprint(t)
	case entity.TemperatureCold, entity.TemperatureNonresponsive:
		return color.New(color.FgBlue).Sprint(t)
	}
	return string(t)
}
