// SPDX-License-Identifier: EPL-2.0

// Package audspatial renders mono audio streams binaurally for headphones,
// placing each sound in 3D space around a moving listener.
//
// An Engine owns the process-wide pieces: the acoustics context, the HRTF,
// the simulator and the effect configuration. Every playing sound gets its
// own render.Renderer, a pull-based stream that processes its source one
// frame at a time and hands out interleaved stereo samples. The spatial
// state each renderer reads is kept in a spatial.Cell that the scene update
// loop writes once per tick.
//
// # Quick Start
//
//	eng, err := audspatial.New(config.Default())
//	if err != nil {
//	    return err
//	}
//
//	src, err := decode.OpenMono("steps.ogg")
//	if err != nil {
//	    return err
//	}
//
//	world := scene.NewWorld(nil)
//	world.SetListener(1, spatial.Identity(spatial.Zero))
//	cell := world.AddSource(2, spatial.Identity(spatial.V(2, 0, -1)))
//
//	r, err := eng.Play(src, cell)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	go eng.Run(ctx, world)
//
// The renderer is an audio.Source, an io.Reader of float32 PCM, and through
// the output package a beep.Streamer, so it plugs into most playback paths.
// RenderToWAV16 renders it offline instead.
//
// # Threading
//
// The scene loop and the playback goroutine never share a lock: state moves
// from one to the other through the cells. A renderer must be pulled by one
// goroutine at a time; different renderers are independent.
package audspatial
