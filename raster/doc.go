// Package raster implements a streaming encoder and decoder for the
// raster formats used to send pre-rasterized pages to printers: CUPS
// Raster versions 1, 2 and 3 (version 2 being a superset of PWG
// Raster) and URF (Apple Raster).
//
// A stream starts with a magic token that fixes the format version and
// byte order for the rest of the stream. It is followed by any number of
// pages, each consisting of a fixed-size header and the page's lines of
// pixel data. Version 2 and URF compress each line with a run-length
// scheme; versions 1 and 3 store lines verbatim.
//
// Decoding and encoding work line by line. Neither side ever holds more
// than one line of pixel data, so arbitrarily large pages can be processed
// in constant memory.
package raster
