package dataframe

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// ISeries provides a type-erased interface for Series of any element type.
// The registry stores every column behind this interface; typed access goes
// through the concrete arrow.Array.
type ISeries interface {
	Name() string
	Len() int
	DataType() arrow.DataType
	IsNull(index int) bool
	NullCount() int
	String() string
	Array() arrow.Array
	Release()
}
