package domain

// Cue is a single subtitle display unit
type Cue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the cue span in seconds
func (c Cue) Duration() float64 {
	return c.End - c.Start
}
