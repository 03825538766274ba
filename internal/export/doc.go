// Package export writes parsed tables in other formats.
//
// Arrow and Parquet output give every column a single type: int64 when all
// of its cells are integers, float64 when all are numeric, and utf8
// otherwise, in which case every cell is rendered with Cell.String. A table
// with no rows exports all columns as utf8.
//
// Arrow buffers are obtained from the memory.Allocator passed by the caller,
// which decides where table data lives while it is being written.
package export
