package analysis

// StageHint points a metric at the pipeline stage and parameter most likely
// responsible for a divergence in it.
type StageHint struct {
	Metric    string
	Label     string
	Stage     string
	Parameter string
}

const (
	unknownStage     = "unknown-stage"
	unknownParameter = "unknown-parameter"
)

var stageHints = [...]StageHint{
	{Metric: "deltaE", Label: "ΔE overall distance", Stage: "Comparison/Scoring", Parameter: "overall-delta"},
	{Metric: "oklab.l", Label: "OKLab L", Stage: "OKLab normalization", Parameter: "lightness"},
	{Metric: "oklab.a", Label: "OKLab a", Stage: "OKLab normalization", Parameter: "chroma-a"},
	{Metric: "oklab.b", Label: "OKLab b", Stage: "OKLab normalization", Parameter: "chroma-b"},
	{Metric: "srgb.r", Label: "sRGB R", Stage: "sRGB encoding", Parameter: "red-channel"},
	{Metric: "srgb.g", Label: "sRGB G", Stage: "sRGB encoding", Parameter: "green-channel"},
	{Metric: "srgb.b", Label: "sRGB B", Stage: "sRGB encoding", Parameter: "blue-channel"},
}

// LookupStageHint returns a copy of the hint for metric. Unknown metrics get
// the unknown-stage/unknown-parameter placeholders and ok == false.
func LookupStageHint(metric string) (StageHint, bool) {
	for _, h := range stageHints {
		if h.Metric == metric {
			return h, true
		}
	}
	return StageHint{
		Metric:    metric,
		Label:     metric,
		Stage:     unknownStage,
		Parameter: unknownParameter,
	}, false
}

// Metrics returns the tracked metric names in declaration order.
func Metrics() []string {
	names := make([]string, len(stageHints))
	for i, h := range stageHints {
		names[i] = h.Metric
	}
	return names
}
