package normalize

// AreaCode extracts the 3-digit area code from a free-text phone number:
// digits only, leading country code "1" stripped, first three of the
// remaining ten. Returns "" when no full 10-digit number is present.
func AreaCode(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return ""
	}
	return string(digits[:3])
}
