// Package scene describes a rendered chart as plain data.
//
// Build is the chart renderer: given a history, a configuration and a
// container size it returns a Scene, a tree of groups holding paths,
// rectangles and text. Building has no side effects, so the same inputs
// always produce the same scene and a resize is simply a new Build.
//
// Putting a scene on a surface is someone else's job. Package svg writes it
// as an SVG document, package raster paints it to PNG and package preview
// draws it into the terminal. All of them implement Encoder or consume a
// Scene directly.
package scene
