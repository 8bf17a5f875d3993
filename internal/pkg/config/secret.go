package config

const redacted = "[REDACTED]"

// Secret holds sensitive configuration. Every printable form is redacted so
// the value cannot leak through logs or dumps; call Reveal to use it.
type Secret string

func (s Secret) String() string   { return redacted }
func (s Secret) GoString() string { return redacted }

func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// Reveal returns the raw value.
func (s Secret) Reveal() string { return string(s) }

// Bytes returns the raw value as a byte slice, e.g. as an HMAC key.
func (s Secret) Bytes() []byte { return []byte(s) }

func (s Secret) Empty() bool { return s == "" }
