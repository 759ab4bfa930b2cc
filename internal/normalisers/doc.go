// Package normalisers holds content inspectors that read target page bodies.
package normalisers
