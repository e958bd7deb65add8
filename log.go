package playbook

import "net/url"

const (
	LogKindKey = "kind"
	LogMaskVal = "xxxxxx"
)

// Mask replaces every value under key in vals with LogMaskVal,
// squashing multiple values into one.
// Mask does nothing if key is not set.
func Mask(vals url.Values, key string) {
	if _, ok := vals[key]; !ok {
		return
	}

	vals[key] = []string{LogMaskVal}
}

// MaskPasswords masks every key in vals ending in "password".
func MaskPasswords(vals url.Values) {
	for k := range vals {
		if len(k) >= len("password") && k[len(k)-len("password"):] == "password" {
			Mask(vals, k)
		}
	}
}
