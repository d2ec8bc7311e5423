package audio

import (
	"errors"
	stdmath "math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"

	"github.com/Faultbox/kiss-anaglyph/internal/engine/orientation"
	"github.com/Faultbox/kiss-anaglyph/pkg/math"
)

func nearVec(a, b math.Vec3) bool {
	return a.Sub(b).Length() < 1e-4
}

func TestSourcePosition(t *testing.T) {
	tests := []struct {
		name string
		a    orientation.Angles
		want math.Vec3
	}{
		{"rest", orientation.Angles{}, math.Vec3{Z: 8}},
		{"quarter turn", orientation.Angles{Alpha: math32.Pi / 2}, math.Vec3{X: 8}},
		{"looking up", orientation.Angles{Beta: math32.Pi / 2}, math.Vec3{Y: 8}},
		{"wrapped alpha", orientation.Angles{Alpha: 2*math32.Pi + math32.Pi/2}, math.Vec3{X: 8}},
		{"clamped beta", orientation.Angles{Beta: 3}, math.Vec3{Y: 8}},
		{"gamma ignored", orientation.Angles{Gamma: 1.2}, math.Vec3{Z: 8}},
	}

	for _, tt := range tests {
		got := SourcePosition(tt.a, SourceRadius)
		if !nearVec(got, tt.want) {
			t.Errorf("%s: SourcePosition = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSourcePositionStaysOnSphere(t *testing.T) {
	for i := 0; i < 50; i++ {
		a := orientation.Angles{Alpha: float32(i) * 0.37, Beta: float32(i)*0.11 - 2, Gamma: float32(i)}
		if l := SourcePosition(a, SourceRadius).Length(); math32.Abs(l-SourceRadius) > 1e-4 {
			t.Fatalf("angles %+v: distance %f, want %f", a, l, SourceRadius)
		}
	}
}

func TestDistanceModelGain(t *testing.T) {
	m := DefaultDistanceModel()

	tests := []struct {
		d, want float64
	}{
		{0.5, 1},        // inside reference distance
		{1, 1},          // reference distance
		{8, 1 / 11.5},   // 1 / (1 + 1.5 * 7)
		{40, 1 / 29.5},  // clamped to max distance 20
	}
	for _, tt := range tests {
		if got := m.Gain(tt.d); stdmath.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Gain(%f) = %f, want %f", tt.d, got, tt.want)
		}
	}

	if (DistanceModel{}).Gain(5) != 1 {
		t.Error("zero model should not attenuate")
	}
}

func TestPan(t *testing.T) {
	tests := []struct {
		p    math.Vec3
		want float64
	}{
		{math.Vec3{X: 8}, 1},
		{math.Vec3{X: -3}, -1},
		{math.Vec3{Z: -8}, 0},
		{math.Vec3{X: 4, Z: 4}, stdmath.Sqrt2 / 2},
		{math.Vec3{}, 0},
	}
	for _, tt := range tests {
		if got := Pan(tt.p); stdmath.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Pan(%v) = %f, want %f", tt.p, got, tt.want)
		}
	}
}

func TestSpatializerLevels(t *testing.T) {
	s := New(DefaultDistanceModel(), 0.8)

	s.SetPosition(SourcePosition(orientation.Angles{Alpha: math32.Pi / 2}, SourceRadius))
	pan, gain := s.Levels()
	if stdmath.Abs(pan-1) > 1e-6 {
		t.Errorf("pan = %f, want 1", pan)
	}
	if stdmath.Abs(gain-0.8/11.5) > 1e-6 {
		t.Errorf("gain = %f, want %f", gain, 0.8/11.5)
	}

	s.SetVolume(2)
	if s.Volume() != 1 {
		t.Errorf("volume = %f, want 1 (clamped)", s.Volume())
	}
	s.SetVolume(-1)
	if _, gain := s.Levels(); gain != 0 || s.Volume() != 0 {
		t.Errorf("negative volume should clamp to silence, gain = %f", gain)
	}
}

func TestSpatializerRequiresInit(t *testing.T) {
	s := New(DefaultDistanceModel(), 1)
	if err := s.PlayTone(440); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("PlayTone before Init: err = %v", err)
	}
	if s.Playing() || s.TogglePlayback() {
		t.Error("nothing should be playing")
	}
	s.Close()
}

func TestChainFollowsPosition(t *testing.T) {
	s := New(DefaultDistanceModel(), 1)
	tone, err := generators.SineTone(DefaultSampleRate, 440)
	if err != nil {
		t.Fatal(err)
	}
	out := s.buildChain(tone)

	// Source to the listener's right: the left channel is attenuated.
	s.SetPosition(math.Vec3{X: 2, Z: -1})

	buf := make([][2]float64, 2048)
	if n, ok := out.Stream(buf); n != len(buf) || !ok {
		t.Fatalf("Stream = %d, %v", n, ok)
	}

	var left, right float64
	for _, frame := range buf {
		left += stdmath.Abs(frame[0])
		right += stdmath.Abs(frame[1])
	}
	if !(right > left) {
		t.Errorf("expected right-heavy output, left=%f right=%f", left, right)
	}
	if right == 0 {
		t.Error("output is silent")
	}
}

// rms returns the mean level of both channels over the second half of buf,
// past the filter's settling time.
func rms(buf [][2]float64) float64 {
	var sum float64
	tail := buf[len(buf)/2:]
	for _, frame := range tail {
		sum += frame[0]*frame[0] + frame[1]*frame[1]
	}
	return stdmath.Sqrt(sum / float64(2*len(tail)))
}

func streamTone(t *testing.T, s *Spatializer, freq float64) (beep.Streamer, [][2]float64) {
	t.Helper()
	tone, err := generators.SineTone(DefaultSampleRate, freq)
	if err != nil {
		t.Fatal(err)
	}
	out := s.buildChain(tone)
	return out, make([][2]float64, 8192)
}

func TestFilterBoostsCenterFrequency(t *testing.T) {
	plain := New(DefaultDistanceModel(), 1)
	plainOut, plainBuf := streamTone(t, plain, 1000)
	plainOut.Stream(plainBuf)
	base := rms(plainBuf)
	if base == 0 {
		t.Fatal("unfiltered output is silent")
	}

	s := New(DefaultDistanceModel(), 1)
	if err := s.SetFilter(Filter{Enabled: true, Frequency: 1000, Q: 4, Gain: 12}); err != nil {
		t.Fatal(err)
	}
	out, buf := streamTone(t, s, 1000)

	out.Stream(buf)
	// +12 dB is about 4x in amplitude.
	if got := rms(buf) / base; got < 2.5 || got > 6 {
		t.Errorf("filtered/plain level = %f, want about 4", got)
	}

	if s.ToggleFilter() {
		t.Fatal("ToggleFilter should report the filter disabled")
	}
	out.Stream(buf)
	if got := rms(buf) / base; stdmath.Abs(got-1) > 0.05 {
		t.Errorf("bypassed/plain level = %f, want 1", got)
	}

	if !s.ToggleFilter() || !s.Filter().Enabled {
		t.Error("filter should be enabled again")
	}
	if s.eq.eq == nil {
		t.Error("equalizer stage not rebuilt")
	}
}

func TestFilterZeroGainBypasses(t *testing.T) {
	s := New(DefaultDistanceModel(), 1)
	if err := s.SetFilter(Filter{Enabled: true, Frequency: 1000, Q: 4, Gain: 0}); err != nil {
		t.Fatal(err)
	}
	s.buildChain(generators.Silence(-1))
	if s.eq.eq != nil {
		t.Error("0 dB filter should be bypassed")
	}
}

func TestSetFilterRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
	}{
		{"zero frequency", Filter{Frequency: 0, Q: 1, Gain: 6}},
		{"above nyquist", Filter{Frequency: 30000, Q: 1, Gain: 6}},
		{"zero q", Filter{Frequency: 1000, Q: 0, Gain: 6}},
		{"nan gain", Filter{Frequency: 1000, Q: 1, Gain: stdmath.NaN()}},
		{"huge gain", Filter{Frequency: 1000, Q: 1, Gain: 100}},
	}

	for _, tt := range tests {
		s := New(DefaultDistanceModel(), 1)
		if err := s.SetFilter(tt.f); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("%s: err = %v, want ErrInvalidFilter", tt.name, err)
		}
		if s.Filter() != DefaultFilter() {
			t.Errorf("%s: filter changed to %+v", tt.name, s.Filter())
		}
	}
}

// brokenDecoder fails every read while still reporting a length and
// accepting seeks.
type brokenDecoder struct {
	seeks int
}

func (b *brokenDecoder) Stream([][2]float64) (int, bool) { return 0, false }
func (b *brokenDecoder) Err() error                      { return errors.New("corrupt frame") }
func (b *brokenDecoder) Len() int                        { return 100 }
func (b *brokenDecoder) Position() int                   { return 0 }
func (b *brokenDecoder) Seek(int) error                  { b.seeks++; return nil }
func (b *brokenDecoder) Close() error                    { return nil }

func TestLoopStopsOnDecoderError(t *testing.T) {
	dec := &brokenDecoder{}
	l := &loopStreamer{streamer: dec}

	n, ok := l.Stream(make([][2]float64, 64))
	if n != 0 || ok {
		t.Errorf("Stream = %d, %v; want 0, false", n, ok)
	}
	if dec.seeks != 0 {
		t.Errorf("seeked %d times after a decode error", dec.seeks)
	}
	if l.Err() == nil {
		t.Error("Err() should surface the decoder error")
	}
}

func TestVolumeToLog2(t *testing.T) {
	tests := []struct {
		vol, want float64
	}{
		{1, 0},
		{0.5, -1},
		{0.25, -2},
		{0, -100},
	}
	for _, tt := range tests {
		if got := volumeToLog2(tt.vol); stdmath.Abs(got-tt.want) > 1e-9 {
			t.Errorf("volumeToLog2(%f) = %f, want %f", tt.vol, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
