// SPDX-License-Identifier: EPL-2.0

// Package config loads the engine configuration from YAML:
//
//	audio:
//	  sample_rate: 44100
//	  frame_size: 1024
//	  validation: false
//	hrtf:
//	  interpolation: bilinear
//	  volume: 1
//	  filter_length: 128
//	  head_radius: 0.0875
//	  spatial_blend: 1
//	direct:
//	  distance_attenuation: true
//	  air_absorption: true
//	  directivity: true
//	  min_distance: 1
//	  air_coefficients: [0.0002, 0.0017, 0.0182]
//	directivity:
//	  dipole_weight: 0.5
//	  dipole_power: 2
//	simulation:
//	  update_rate: 60
//	log:
//	  level: info
//	  format: text
//
// Missing keys keep their Default value.
package config
