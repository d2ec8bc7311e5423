// Package audio plays a looping sound whose stereo placement follows the
// sound source position derived from the orientation sensor.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	stdmath "math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/Faultbox/kiss-anaglyph/pkg/math"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Errors returned by the spatializer.
var (
	ErrNotInitialized = errors.New("audio not initialized")
	ErrInvalidFilter  = errors.New("invalid filter settings")
)

// Filter configures the peaking equalizer stage between the source and
// the volume stage.
type Filter struct {
	Enabled   bool
	Frequency float64 // Center frequency, Hz
	Q         float64 // Center frequency over bandwidth
	Gain      float64 // Boost or cut at the center, dB
}

// DefaultFilter returns a disabled 1 kHz peak boosting 15 dB with Q 4.
func DefaultFilter() Filter {
	return Filter{Frequency: 1000, Q: 4, Gain: 15}
}

// Validate checks the filter against the sample rate.
func (f Filter) Validate(sr beep.SampleRate) error {
	nyquist := float64(sr) / 2
	if !(f.Frequency > 0 && f.Frequency < nyquist) {
		return fmt.Errorf("frequency %g Hz outside (0, %g): %w", f.Frequency, nyquist, ErrInvalidFilter)
	}
	if !(f.Q > 0) || stdmath.IsInf(f.Q, 0) {
		return fmt.Errorf("q %g: %w", f.Q, ErrInvalidFilter)
	}
	if stdmath.IsNaN(f.Gain) || stdmath.Abs(f.Gain) > 40 {
		return fmt.Errorf("gain %g dB outside [-40, 40]: %w", f.Gain, ErrInvalidFilter)
	}
	return nil
}

// active reports whether the filter alters the signal. A 0 dB peak is
// unity and is bypassed.
func (f Filter) active() bool {
	return f.Enabled && f.Gain != 0
}

// sections returns the equalizer band. The bandwidth is measured at half
// the peak gain.
func (f Filter) sections() effects.MonoEqualizerSections {
	return effects.MonoEqualizerSections{{
		F0: f.Frequency,
		Bf: f.Frequency / f.Q,
		GB: f.Gain / 2,
		G0: 0,
		G:  f.Gain,
	}}
}

// Spatializer owns the speaker and a single looping source.
type Spatializer struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate
	model       DistanceModel

	source beep.StreamSeekCloser // nil for generated tones
	ctrl   *beep.Ctrl
	eq     *filterStage
	volume *effects.Volume
	pan    *effects.Pan

	masterVolume float64
	filter       Filter
	position     math.Vec3
	panLevel     float64
	gainLevel    float64
}

// New creates a spatializer with the given distance model.
func New(model DistanceModel, volume float64) *Spatializer {
	s := &Spatializer{
		sampleRate:   DefaultSampleRate,
		model:        model,
		masterVolume: clamp(volume, 0, 1),
		filter:       DefaultFilter(),
	}
	s.position = math.Vec3{Z: -SourceRadius}
	s.updateLevels()
	return s
}

// Init opens the audio device.
func (s *Spatializer) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(s.sampleRate, s.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	s.initialized = true
	return nil
}

// Close stops playback and releases the device.
func (s *Spatializer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	s.releaseSource()
	speaker.Close()
	s.initialized = false
}

// PlayTone starts a looping sine tone at freq Hz.
func (s *Spatializer) PlayTone(freq float64) error {
	tone, err := generators.SineTone(s.sampleRate, freq)
	if err != nil {
		return fmt.Errorf("sine tone %g Hz: %w", freq, err)
	}
	return s.play(tone, nil)
}

// PlayWAV decodes WAV data and loops it.
func (s *Spatializer) PlayWAV(data []byte) error {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	var src beep.Streamer = &loopStreamer{streamer: streamer}
	if format.SampleRate != s.sampleRate {
		src = beep.Resample(4, format.SampleRate, s.sampleRate, src)
	}
	if err := s.play(src, streamer); err != nil {
		streamer.Close()
		return err
	}
	return nil
}

func (s *Spatializer) play(src beep.Streamer, closer beep.StreamSeekCloser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	speaker.Clear()
	s.releaseSource()

	out := s.buildChain(src)
	s.source = closer
	speaker.Play(out)
	return nil
}

// buildChain wires src through pause, filter, volume and pan stages.
func (s *Spatializer) buildChain(src beep.Streamer) beep.Streamer {
	s.ctrl = &beep.Ctrl{Streamer: src}
	s.eq = &filterStage{src: s.ctrl}
	s.volume = &effects.Volume{Streamer: s.eq, Base: 2}
	s.pan = &effects.Pan{Streamer: s.volume}
	s.applyFilter()
	s.applyLevels()
	return s.pan
}

func (s *Spatializer) releaseSource() {
	if s.source != nil {
		s.source.Close()
		s.source = nil
	}
	s.ctrl, s.eq, s.volume, s.pan = nil, nil, nil, nil
}

// TogglePlayback pauses or resumes the source and reports whether it is now playing.
func (s *Spatializer) TogglePlayback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl == nil {
		return false
	}
	s.withSpeaker(func() { s.ctrl.Paused = !s.ctrl.Paused })
	return !s.ctrl.Paused
}

// Playing reports whether a source is loaded and not paused.
func (s *Spatializer) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl != nil && !s.ctrl.Paused
}

// SetVolume sets the master volume (0.0 to 1.0).
func (s *Spatializer) SetVolume(vol float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.masterVolume = clamp(vol, 0, 1)
	s.updateLevels()
}

// Volume returns the master volume.
func (s *Spatializer) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.masterVolume
}

// Filter returns the current filter settings.
func (s *Spatializer) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter replaces the filter settings. Invalid settings are rejected
// and the current ones kept.
func (s *Spatializer) SetFilter(f Filter) error {
	if err := f.Validate(s.sampleRate); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.withSpeaker(s.applyFilter)
	return nil
}

// ToggleFilter switches the filter stage on or off and reports whether it
// is now enabled.
func (s *Spatializer) ToggleFilter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Enabled = !s.filter.Enabled
	s.withSpeaker(s.applyFilter)
	return s.filter.Enabled
}

// SetPosition moves the sound source relative to the listener.
func (s *Spatializer) SetPosition(p math.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = p
	s.updateLevels()
}

// Levels returns the current pan and the linear gain applied to the source.
func (s *Spatializer) Levels() (pan, gain float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panLevel, s.gainLevel
}

func (s *Spatializer) updateLevels() {
	s.panLevel = Pan(s.position)
	s.gainLevel = s.masterVolume * s.model.Gain(float64(s.position.Length()))
	s.withSpeaker(s.applyLevels)
}

// applyLevels copies the computed levels into the effect stages.
func (s *Spatializer) applyLevels() {
	if s.volume != nil {
		s.volume.Silent = s.gainLevel <= 0
		s.volume.Volume = volumeToLog2(s.gainLevel)
	}
	if s.pan != nil {
		s.pan.Pan = s.panLevel
	}
}

// applyFilter rebuilds the equalizer for the current settings. Filter
// history restarts.
func (s *Spatializer) applyFilter() {
	if s.eq == nil {
		return
	}
	if !s.filter.active() {
		s.eq.eq = nil
		return
	}
	s.eq.eq = effects.NewEqualizer(s.eq.src, s.sampleRate, s.filter.sections())
}

// withSpeaker runs fn under the speaker lock when the device is open.
func (s *Spatializer) withSpeaker(fn func()) {
	if !s.initialized {
		fn()
		return
	}
	speaker.Lock()
	fn()
	speaker.Unlock()
}

// volumeToLog2 converts a linear gain to the base-2 exponent used by effects.Volume.
func volumeToLog2(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return stdmath.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// loopStreamer rewinds its source whenever it runs dry.
type loopStreamer struct {
	streamer beep.StreamSeekCloser
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.streamer.Stream(samples[filled:])
		filled += n
		if !ok {
			// A failing decoder would rewind and fail again forever.
			if l.streamer.Err() != nil {
				return filled, filled > 0
			}
			if err := l.streamer.Seek(0); err != nil {
				return filled, filled > 0
			}
			if n == 0 && l.streamer.Len() == 0 {
				return filled, filled > 0
			}
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.streamer.Err()
}

// filterStage routes its source through an equalizer, or passes it
// through unchanged when eq is nil.
type filterStage struct {
	src beep.Streamer
	eq  beep.Streamer
}

func (f *filterStage) Stream(samples [][2]float64) (n int, ok bool) {
	if f.eq != nil {
		return f.eq.Stream(samples)
	}
	return f.src.Stream(samples)
}

func (f *filterStage) Err() error {
	return f.src.Err()
}
