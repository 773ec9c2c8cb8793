// Package formats reads and writes height-map and heightfield files.
//
// Supported: headerless RAW height maps, PNG/BMP/TIFF grayscale images,
// HFZ compressed heightfields and PNG previews.
package formats
