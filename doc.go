/*
Package flowvis computes what is needed to visualize a time-varying 2D vector
field such as an optical-flow sequence: the rotation (curl) of each frame and
the motion of massless tracer points advected through it.

All functions in this package are pure. They read a VectorField and never
modify it, so a single frame may be shared by the curl estimator and any
number of advection passes.

	f := frame          // *flowvis.VectorField, 128x128
	curl := flowvis.Curl(f)
	tr := flowvis.Advect(f, tracers, 0.1, 10)
	tracers = tr.Last()

Tracer positions live in field grid coordinates. Use ScaleFactor to convert
them to display pixels when drawing.
*/
package flowvis
