// Package analysis summarises the per-frame series recorded by a run.
//
//   - [Series]: extracts one column (mass, peak, ...) from frame stats
//   - [Summarize]: min, max, mean and spread of a series
//   - [DecayRate]: exponential decay constant of a positive series
//   - [PowerSpectrum], [DominantFrequency]: oscillation content via FFT
//   - [NewPhasePortrait]: one series plotted against another
//
// A well-behaved run keeps mass close to the injected total while the peak
// density decays as the puff diffuses:
//
//	peak, _ := analysis.Series(frames, "peak")
//	rate, err := analysis.DecayRate(peak, dt)
package analysis
