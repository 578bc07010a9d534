// Package ctc implements recursive stereo crosstalk cancellation for
// loudspeaker playback.
//
// The [Engine] processes one stereo frame per call on the audio hot
// path: it never allocates, locks or blocks. [MapGeometry] converts the
// listener/speaker layout and air temperature into the delays, cutoffs
// and per-path amplitude factors the engine consumes; run it once per
// reconfiguration and rebuild the engine from the result.
package ctc
