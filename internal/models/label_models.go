package models

import "encoding/json"

// Label is one of the five emotion classes the models are trained on. The
// integer value doubles as the label code used for model interchange; the
// string form is what reaches callers.
type Label int

const (
	LabelNeutral Label = iota
	LabelHappy
	LabelFunny
	LabelFear
	LabelSad
)

const NumLabels = 5

var labelNames = [NumLabels]string{"neutral", "happy", "funny", "fear", "sad"}

// AllLabels returns the labels in their fixed enumeration order. Every
// tie-break in the system walks this order, never map order.
func AllLabels() [NumLabels]Label {
	return [NumLabels]Label{LabelNeutral, LabelHappy, LabelFunny, LabelFear, LabelSad}
}

// LabelFromCode validates a raw classifier code. Codes outside [0,5) have no
// label and must be rejected by the caller, never passed through.
func LabelFromCode(code int) (Label, bool) {
	if code < 0 || code >= NumLabels {
		return LabelNeutral, false
	}
	return Label(code), true
}

// LabelCodes maps every label name to its code, for backends that emit string
// labels.
func LabelCodes() map[string]int {
	codes := make(map[string]int, NumLabels)
	for _, label := range AllLabels() {
		codes[label.String()] = int(label)
	}
	return codes
}

func (l Label) String() string {
	if l < 0 || int(l) >= NumLabels {
		return "unknown"
	}
	return labelNames[l]
}

func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}
