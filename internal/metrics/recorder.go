package metrics

// Recorder receives scheduler observations. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// ObserveEvaluation counts one evaluation by trigger ("tick"/"refresh") and outcome.
	ObserveEvaluation(trigger, outcome string)
	// ObserveSinkCall counts one theme application and whether it failed.
	ObserveSinkCall(isLight bool, err error)
	// ObserveOverride counts one manual override notification.
	ObserveOverride()
	// SetShouldBeLight publishes the latest evaluated target.
	SetShouldBeLight(isLight bool)
}

// NoopRecorder discards all observations.
type NoopRecorder struct{}

func (NoopRecorder) ObserveEvaluation(string, string) {}
func (NoopRecorder) ObserveSinkCall(bool, error)      {}
func (NoopRecorder) ObserveOverride()                 {}
func (NoopRecorder) SetShouldBeLight(bool)            {}

// Theme labels used for the sink-call counter.
func themeLabel(isLight bool) string {
	if isLight {
		return "light"
	}
	return "dark"
}
