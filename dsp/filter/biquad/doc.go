// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections can be
// cascaded via [Chain], which preserves section order exactly; parametric EQ
// stages are not commutative once gain and clipping enter the picture.
//
// This package provides the processing runtime only. Coefficient design
// (shelving and peaking EQ) lives in dsp/filter/design.
package biquad
