package report

type Report struct {
	Run    *RunReport    `json:"run,omitempty"`
	Engine *EngineReport `json:"engine,omitempty"`
}
