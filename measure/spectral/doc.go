// Package spectral measures energy distribution across perceptual
// frequency bands, from sub-bass up to brilliance.
package spectral
