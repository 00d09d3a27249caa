package model

import "regexp"

// Up to 15 digits, optional leading + and country digit.
var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ValidPhone reports whether s is an acceptable contact phone number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}
