package geometry

import "fmt"

// NotPowerOfTwoError reports a configuration field that must be a power of
// two but is not. It is returned at configuration time, never per access.
type NotPowerOfTwoError struct {
	Field string
	Value uint64
}

func (e NotPowerOfTwoError) Error() string {
	return fmt.Sprintf("%s must be a power of two, got %d", e.Field, e.Value)
}

// AddressWidthError reports a configuration whose offset and set-index fields
// do not fit in the address width, such as a block size larger than the total
// cache size. The run cannot start with such a configuration.
type AddressWidthError struct {
	TotalBytes   uint64
	BlockSize    uint64
	AddressWidth int
}

func (e AddressWidthError) Error() string {
	return fmt.Sprintf(
		"cache of %d bytes with %d-byte blocks does not fit a %d-bit address",
		e.TotalBytes, e.BlockSize, e.AddressWidth)
}
