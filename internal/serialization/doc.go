// Package serialization reads and writes tensors in a whitespace-delimited
// decimal text format:
//
//	Format Structure:
//	  rank
//	  dim_0 ... dim_{rank-1}
//	  elem_0 ... elem_{size-1}     (row-major order)
//
// Tokens may be separated by any whitespace; the writer emits single spaces
// and a trailing newline. Integers are written in base 10, floats in the
// shortest form that parses back to the same value, and bools as 1 or 0.
// The format is not meant to carry NaN payloads or other binary detail.
//
// Example usage:
//
//	t, _ := tensor.FromSlice([]int32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	s := serialization.Serialize(t) // "2 2 3 1 2 3 4 5 6\n"
//
//	back, err := serialization.Deserialize[int32](s)
//	if err != nil {
//	    log.Fatal(err)
//	}
package serialization
