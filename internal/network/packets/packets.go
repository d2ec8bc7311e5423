// Package packets defines the JSON messages exchanged with orientation sensors
// and the relay that forwards them.
package packets

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/kiss-anaglyph/internal/engine/orientation"
)

// Parse errors.
var (
	ErrNoOrientation = errors.New("message carries no orientation")
	ErrShortValues   = errors.New("values array needs three elements")
)

// Triple is an alpha/beta/gamma reading in degrees.
// Missing components decode as nil.
type Triple struct {
	Alpha *float64 `json:"alpha,omitempty"`
	Beta  *float64 `json:"beta,omitempty"`
	Gamma *float64 `json:"gamma,omitempty"`
}

func (t *Triple) present() bool {
	return t != nil && (t.Alpha != nil || t.Beta != nil || t.Gamma != nil)
}

func (t *Triple) angles() orientation.Angles {
	return orientation.FromDegrees(deref(t.Alpha), deref(t.Beta), deref(t.Gamma))
}

// message is the union of every shape a sensor may send.
type message struct {
	Triple
	Orientation *Triple   `json:"orientation"`
	Data        *Triple   `json:"data"`
	Values      []float64 `json:"values"`
}

// ParseOrientation decodes a sensor message into clamped radians.
//
// Accepted shapes, checked in order of precedence:
//
//	{"values":[alpha,beta,gamma]}
//	{"orientation":{"alpha":..,"beta":..,"gamma":..}}
//	{"alpha":..,"beta":..,"gamma":..}
//	{"data":{"alpha":..,"beta":..,"gamma":..}}
//
// Input angles are degrees. Missing components read as zero.
func ParseOrientation(data []byte) (orientation.Angles, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return orientation.Angles{}, fmt.Errorf("decoding sensor message: %w", err)
	}

	switch {
	case msg.Values != nil:
		if len(msg.Values) < 3 {
			return orientation.Angles{}, fmt.Errorf("%d values: %w", len(msg.Values), ErrShortValues)
		}
		return orientation.FromDegrees(msg.Values[0], msg.Values[1], msg.Values[2]), nil
	case msg.Orientation.present():
		return msg.Orientation.angles(), nil
	case msg.Alpha != nil:
		return msg.Triple.angles(), nil
	case msg.Data.present():
		return msg.Data.angles(), nil
	}
	return orientation.Angles{}, ErrNoOrientation
}

// Snapshot is the latest reading held by the relay, in degrees, as broadcast
// to listeners. Timestamp is milliseconds since the Unix epoch.
type Snapshot struct {
	Alpha     float64 `json:"alpha"`
	Beta      float64 `json:"beta"`
	Gamma     float64 `json:"gamma"`
	Timestamp int64   `json:"timestamp"`
}

// Merge copies the components present in t into s and stamps it with now.
func (s *Snapshot) Merge(t Triple, now time.Time) {
	if t.Alpha != nil {
		s.Alpha = *t.Alpha
	}
	if t.Beta != nil {
		s.Beta = *t.Beta
	}
	if t.Gamma != nil {
		s.Gamma = *t.Gamma
	}
	s.Timestamp = now.UnixMilli()
}

// Encode marshals the snapshot for the wire.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Status is the acknowledgement returned for posted readings.
type Status struct {
	Status string `json:"status"`
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
