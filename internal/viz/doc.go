// Package viz renders the joint variational posterior q(μ)q(γ) as a contour
// plot over a (mean, precision) grid.
//
// Rendering is presentation only; nothing in the numerical core depends on it.
// The image format follows the output file extension (png, svg, pdf, ...).
package viz
