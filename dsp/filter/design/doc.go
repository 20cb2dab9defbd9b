// Package design provides RBJ cookbook coefficient design for the
// parametric EQ biquads used by the mastering chain: peaking, low-shelf,
// and high-shelf filters.
//
// Invalid parameters (non-positive frequency, frequency at or above
// Nyquist) yield zero coefficients rather than an error; callers that
// need validation should check inputs at their own boundary.
package design
