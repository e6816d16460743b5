package config

// secretMask replaces secret values whenever the configuration is serialized.
const secretMask = "<secret>"

// SecretString holds a sensitive configuration value, e.g. the store link
// signing key. Dumping the configuration (reports, dumpconfig) masks it;
// convert to string to use the real value.
type SecretString string

func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return secretMask, nil
}
