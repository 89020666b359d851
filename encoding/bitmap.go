package encoding

// GetBit reads position pos of a little-endian validity bitmap.
func GetBit(bits []byte, pos int64) bool {
	return bits[pos/8]&(1<<uint(pos%8)) != 0
}
