// Package spatial provides stereo image processors.
//
// Processors:
//   - StereoWidener: mid/side width control for stereo material
package spatial
