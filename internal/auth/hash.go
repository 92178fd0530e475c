package auth

import "strconv"

// HashPassword derives the stored credential from a password using the
// 31-multiplier string hash reduced to 32 bits, rendered in decimal. It is
// deterministic and deliberately not cryptographic; collisions are a known,
// tolerated weakness of the scheme.
func HashPassword(password string) string {
	var h int32
	for _, r := range password {
		h = h*31 + int32(r)
	}
	return strconv.FormatInt(int64(h), 10)
}
