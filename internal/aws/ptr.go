package aws

// String returns a pointer to s.
func String(s string) *string { return &s }

func Bool(b bool) *bool { return &b }
