// Package sink renders a paginated [layout.Layout] to output formats.
//
//   - [RenderPDF] writes a multi-page PDF with the label font embedded
//   - [RenderPNG] rasterises every page to its own PNG
//   - [RenderJSON] exports page geometry, optionally with block plans and image data
//
// All renderers take functional options and never modify the layout.
package sink
