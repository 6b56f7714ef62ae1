package core

// Itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func Itoa(n int) string {
	if n < 0 {
		return "-" + Utoa(uint32(-n))
	}
	return Utoa(uint32(n))
}

// Utoa converts an unsigned integer to a string
func Utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}

const hexDigits = "0123456789ABCDEF"

// Hex formats v as 0x-prefixed upper-case hex with at least width digits
func Hex(v uint32, width int) string {
	var buf [8]byte
	pos := len(buf)
	for v > 0 || len(buf)-pos < width {
		pos--
		buf[pos] = hexDigits[v&0xF]
		v >>= 4
		if pos == 0 {
			break
		}
	}
	if pos == len(buf) {
		pos--
		buf[pos] = '0'
	}
	return "0x" + string(buf[pos:])
}
