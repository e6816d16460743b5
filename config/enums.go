package config

import "fmt"

// Specification of figure border composition mode.
type BorderMode int

const (
	// BorderModeAuto borders the elements that ask for one (figures, video
	// thumbnails) and leaves the rest alone.
	BorderModeAuto BorderMode = iota
	// BorderModeNone never composes borders.
	BorderModeNone
	// BorderModeAlways borders every embedded image.
	BorderModeAlways
)

var borderModeNames = map[BorderMode]string{
	BorderModeAuto:   "auto",
	BorderModeNone:   "none",
	BorderModeAlways: "always",
}

func (m BorderMode) String() string {
	if n, ok := borderModeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("BorderMode(%d)", int(m))
}

// ParseBorderMode converts a string to a BorderMode.
func ParseBorderMode(s string) (BorderMode, error) {
	for m, n := range borderModeNames {
		if n == s {
			return m, nil
		}
	}
	return BorderModeAuto, fmt.Errorf("%q is not a valid border mode", s)
}

func (m BorderMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

func (m *BorderMode) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseBorderMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
