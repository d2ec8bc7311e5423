package packets

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Faultbox/kiss-anaglyph/internal/engine/orientation"
)

const rad = math.Pi / 180

func approx(got float32, want float64) bool {
	return math.Abs(float64(got)-want) < 1e-5
}

func TestParseOrientationShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [3]float64 // degrees
	}{
		{"values", `{"values":[30,10,-5]}`, [3]float64{30, 10, -5}},
		{"orientation", `{"orientation":{"alpha":90,"beta":45,"gamma":-30}}`, [3]float64{90, 45, -30}},
		{"top level", `{"alpha":180,"beta":-20,"gamma":5,"timestamp":1700000000000}`, [3]float64{180, -20, 5}},
		{"data", `{"data":{"alpha":1,"beta":2,"gamma":3}}`, [3]float64{1, 2, 3}},
		{"values win", `{"orientation":{"alpha":1,"beta":1,"gamma":1},"values":[7,8,9]}`, [3]float64{7, 8, 9}},
		{"orientation beats top level", `{"alpha":5,"beta":5,"gamma":5,"orientation":{"alpha":6,"beta":6,"gamma":6}}`, [3]float64{6, 6, 6}},
		{"top level beats data", `{"alpha":4,"beta":4,"gamma":4,"data":{"alpha":3,"beta":3,"gamma":3}}`, [3]float64{4, 4, 4}},
		{"missing component", `{"orientation":{"alpha":10}}`, [3]float64{10, 0, 0}},
		{"extra values ignored", `{"values":[1,2,3,4,5]}`, [3]float64{1, 2, 3}},
	}

	for _, tt := range tests {
		got, err := ParseOrientation([]byte(tt.in))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if !approx(got.Alpha, tt.want[0]*rad) || !approx(got.Beta, tt.want[1]*rad) || !approx(got.Gamma, tt.want[2]*rad) {
			t.Errorf("%s: got %+v, want degrees %v", tt.name, got, tt.want)
		}
	}
}

func TestParseOrientationValuesScenario(t *testing.T) {
	got, err := ParseOrientation([]byte(`{"values":[30,10,-5]}`))
	if err != nil {
		t.Fatal(err)
	}
	want := orientation.Angles{Alpha: 0.5235988, Beta: 0.1745329, Gamma: -0.0872665}
	if !approx(got.Alpha, float64(want.Alpha)) || !approx(got.Beta, float64(want.Beta)) || !approx(got.Gamma, float64(want.Gamma)) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseOrientationClamps(t *testing.T) {
	got, err := ParseOrientation([]byte(`{"values":[370,135,-120]}`))
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got.Alpha, 370*rad) {
		t.Errorf("alpha should not be clamped, got %f", got.Alpha)
	}
	if !approx(got.Beta, math.Pi/2) || !approx(got.Gamma, -math.Pi/2) {
		t.Errorf("beta/gamma not clamped: %+v", got)
	}
}

func TestParseOrientationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty object", `{}`, ErrNoOrientation},
		{"unrelated fields", `{"status":"ok"}`, ErrNoOrientation},
		{"empty orientation", `{"orientation":{}}`, ErrNoOrientation},
		{"short values", `{"values":[1,2]}`, ErrShortValues},
	}

	for _, tt := range tests {
		if _, err := ParseOrientation([]byte(tt.in)); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}

	if _, err := ParseOrientation([]byte(`{"values":`)); err == nil {
		t.Error("malformed JSON should fail")
	} else if errors.Is(err, ErrNoOrientation) {
		t.Error("decode errors should be distinguishable from missing orientation")
	}
}

func TestSnapshotMerge(t *testing.T) {
	s := Snapshot{Alpha: 1, Beta: 2, Gamma: 3}
	beta := 45.5
	now := time.UnixMilli(1700000000123)

	s.Merge(Triple{Beta: &beta}, now)
	if s.Alpha != 1 || s.Beta != 45.5 || s.Gamma != 3 {
		t.Errorf("merge changed absent fields: %+v", s)
	}
	if s.Timestamp != 1700000000123 {
		t.Errorf("timestamp = %d", s.Timestamp)
	}

	data, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]float64
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"alpha", "beta", "gamma", "timestamp"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("encoded snapshot missing %q: %s", key, data)
		}
	}

	// The relay's own broadcast must be readable by the sensor client.
	got, err := ParseOrientation(data)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got.Beta, 45.5*rad) {
		t.Errorf("snapshot beta = %f rad", got.Beta)
	}
}
